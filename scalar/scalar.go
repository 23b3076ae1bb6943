// Package scalar provides the uniform real/complex arithmetic trait shared
// by every solver kernel: zero, one, conjugate, real part, absolute value,
// square root and machine epsilon, generic over the field the vectors are
// built from.
//
// Two type parameters are kept separate throughout the library and never
// conflated: FC, the (possibly complex) field the vectors live in, and T,
// the real floating type that norms, tolerances and curvature estimates are
// reported in. For FC = complex128, T is float64; for FC = float64, T is
// float64 too.
//
// The generic engine covers float32, float64, complex64 and complex128.
// Arbitrary-precision scalars (math/big) cannot satisfy Go's operator-based
// generic constraints — big.Float is a struct, not an operand-supporting
// numeric kind — and are deliberately left unimplemented; see DESIGN.md.
package scalar

import (
	"math"
	"math/cmplx"
)

// Real is the set of real floating types a solver may report norms in.
type Real interface {
	~float32 | ~float64
}

// Complex is the set of complex types a solver may operate over.
type Complex interface {
	~complex64 | ~complex128
}

// Field is the set of scalar types vectors may hold: real or complex.
type Field interface {
	Real | Complex
}

// Zero returns the additive identity of FC.
func Zero[FC Field]() FC {
	var z FC
	return z
}

// One returns the multiplicative identity of FC.
func One[FC Field]() FC {
	switch any(Zero[FC]()).(type) {
	case complex64:
		return any(complex64(1)).(FC)
	case complex128:
		return any(complex128(1)).(FC)
	case float32:
		return any(float32(1)).(FC)
	default:
		return any(float64(1)).(FC)
	}
}

// Conj returns the complex conjugate of x, or x unchanged when FC is real.
func Conj[FC Field](x FC) FC {
	switch v := any(x).(type) {
	case complex64:
		return any(complex64(cmplx.Conj(complex128(v)))).(FC)
	case complex128:
		return any(cmplx.Conj(v)).(FC)
	default:
		return x
	}
}

// RealPart returns Re(x) as T.
func RealPart[FC Field, T Real](x FC) T {
	switch v := any(x).(type) {
	case complex64:
		return T(real(v))
	case complex128:
		return T(real(v))
	case float32:
		return T(v)
	case float64:
		return T(v)
	}
	panic("scalar: unreachable field kind")
}

// Abs returns |x| as T.
func Abs[FC Field, T Real](x FC) T {
	switch v := any(x).(type) {
	case complex64:
		return T(cmplx.Abs(complex128(v)))
	case complex128:
		return T(cmplx.Abs(v))
	case float32:
		return T(math.Abs(float64(v)))
	case float64:
		return T(math.Abs(v))
	}
	panic("scalar: unreachable field kind")
}

// FromReal lifts a real value r into FC (the imaginary part, if any, is zero).
func FromReal[FC Field, T Real](r T) FC {
	switch any(Zero[FC]()).(type) {
	case complex64:
		return any(complex64(complex(float32(r), 0))).(FC)
	case complex128:
		return any(complex(float64(r), 0)).(FC)
	case float32:
		return any(float32(r)).(FC)
	default:
		return any(float64(r)).(FC)
	}
}

// Sqrt returns the square root of a non-negative real x.
func Sqrt[T Real](x T) T {
	return T(math.Sqrt(float64(x)))
}

// Eps returns the machine epsilon of T: the smallest value such that
// 1 + Eps() != 1 in T's rounding.
func Eps[T Real]() T {
	var z T
	switch any(z).(type) {
	case float32:
		return T(float32(1.1920929e-07))
	default:
		return T(2.220446049250313e-16)
	}
}
