package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxpyReal(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{10, 20, 30}
	Axpy(3, 2.0, x, y)
	assert.Equal(t, []float64{12, 24, 36}, y)
}

func TestAxpyFloat32(t *testing.T) {
	x := []float32{1, 2, 3, 4, 5}
	y := []float32{0, 0, 0, 0, 0}
	Axpy(5, float32(3), x, y)
	assert.InDeltaSlice(t, []float64{3, 6, 9, 12, 15}, toF64(y), 1e-6)
}

func TestAxpby(t *testing.T) {
	x := []float64{1, 1, 1}
	y := []float64{2, 2, 2}
	Axpby(3, 2.0, x, 0.5, y)
	assert.Equal(t, []float64{3, 3, 3}, y)
}

func TestScal(t *testing.T) {
	x := []complex128{1 + 1i, 2 - 1i}
	Scal(2, complex(0, 1), x)
	assert.Equal(t, []complex128{-1 + 1i, 1 + 2i}, x)
}

func TestDotConjugatesFirstArgument(t *testing.T) {
	x := []complex128{1i, 0}
	y := []complex128{1i, 0}
	got := Dot(2, x, y)
	// conj(i)*i = -i*i = 1
	require.InDelta(t, 1, real(got), 1e-12)
	require.InDelta(t, 0, imag(got), 1e-12)
}

func TestDotr(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	got := Dotr[float64, float64](3, x, y)
	assert.InDelta(t, 32.0, got, 1e-12)
}

func TestNrm2(t *testing.T) {
	x := []float64{3, 4}
	assert.InDelta(t, 5.0, Nrm2[float64, float64](2, x), 1e-12)
}

func TestNrm2Float32(t *testing.T) {
	x := []float32{3, 4}
	assert.InDelta(t, 5.0, float64(Nrm2[float32, float32](2, x)), 1e-5)
}

func TestCopyAndFill(t *testing.T) {
	dst := make([]float64, 3)
	Fill(3, dst, 7.0)
	assert.Equal(t, []float64{7, 7, 7}, dst)

	dst2 := make([]float64, 3)
	Copy(3, dst2, dst)
	assert.Equal(t, dst, dst2)
}

func toF64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
