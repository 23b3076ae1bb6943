package givens

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymGivensRealBasicProperties(t *testing.T) {
	cases := [][2]float64{
		{3, 4}, {-3, 4}, {3, -4}, {-3, -4}, {0, 5}, {5, 0}, {0, 0}, {1e-8, 1e8},
	}
	for _, tc := range cases {
		a, b := tc[0], tc[1]
		c, s, r := SymGivens[float64, float64](a, b)

		assert.GreaterOrEqual(t, r, 0.0, "a=%v b=%v", a, b)
		assert.InDelta(t, 1.0, c*c+s*s, 1e-9, "unitarity a=%v b=%v", a, b)
		assert.InDelta(t, math.Hypot(a, b), r, 1e-6*math.Max(1, math.Hypot(a, b)), "a=%v b=%v", a, b)

		// matrix equation: c*a + s*b == r ; s*a - c*b == 0
		assert.InDelta(t, r, c*a+s*b, 1e-6*math.Max(1, r))
		assert.InDelta(t, 0, s*a-c*b, 1e-6*math.Max(1, math.Abs(a)+math.Abs(b)))
	}
}

func TestSymGivensComplex(t *testing.T) {
	a := complex(3, 4)
	b := complex(0, 0) + complex(5, 0)
	c, s, r := SymGivens[complex128, float64](a, b)

	assert.InDelta(t, 1.0, c*c+real(s)*real(s)+imag(s)*imag(s), 1e-9)
	wantAbsR := math.Sqrt(cmplx.Abs(a)*cmplx.Abs(a) + cmplx.Abs(b)*cmplx.Abs(b))
	assert.InDelta(t, wantAbsR, cmplx.Abs(r), 1e-9)

	// row 2: s*a - c*b == 0
	lhs := s*a - complex(c, 0)*b
	assert.InDelta(t, 0, cmplx.Abs(lhs), 1e-9)
	// row 1: c*a + conj(s)*b == r
	lhs1 := complex(c, 0)*a + cmplx.Conj(s)*b
	assert.InDelta(t, 0, cmplx.Abs(lhs1-r), 1e-9)
}

func TestSymGivensDegenerateCases(t *testing.T) {
	c, s, r := SymGivens[float64, float64](0, 0)
	assert.Equal(t, 1.0, c)
	assert.Equal(t, 0.0, s)
	assert.Equal(t, 0.0, r)

	c, s, r = SymGivens[float64, float64](5, 0)
	assert.Equal(t, 1.0, c)
	assert.Equal(t, 0.0, s)
	assert.Equal(t, 5.0, r)

	c, s, r = SymGivens[float64, float64](0, 5)
	assert.Equal(t, 0.0, c)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, 5.0, r)
}
