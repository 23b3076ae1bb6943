// Package givens implements the numerically stable Givens rotation
// generator (C6) shared by GMRES's incremental Hessenberg QR and MINRES's
// incremental tridiagonal QR.
package givens

import "github.com/orneryd/gokrylov/scalar"

// SymGivens computes (c, s, r) such that
//
//	[ c   conj(s) ] [a]   [r]
//	[ s    -c     ] [b] = [0]
//
// with c real, c^2 + |s|^2 = 1, and in general |r|^2 = |a|^2 + |b|^2. When
// FC is a real scalar type, r is additionally guaranteed real and >= 0.
// Handles a == 0 and b == 0 without producing NaNs.
func SymGivens[FC scalar.Field, T scalar.Real](a, b FC) (c T, s FC, r FC) {
	switch any(a).(type) {
	case complex64, complex128:
		return symGivensComplex[FC, T](a, b)
	default:
		return symGivensReal[FC, T](a, b)
	}
}

// symGivensReal is the classical real-valued construction (Golub & Van
// Loan), which picks signs so that r is always >= 0.
func symGivensReal[FC scalar.Field, T scalar.Real](a, b FC) (c T, s FC, r FC) {
	ar := scalar.RealPart[FC, T](a)
	br := scalar.RealPart[FC, T](b)
	absA := scalar.Abs[FC, T](a)
	absB := scalar.Abs[FC, T](b)

	var cr, sr, rr T
	switch {
	case br == 0:
		if ar == 0 {
			cr, sr, rr = 1, 0, 0
		} else {
			cr, sr, rr = signT(ar), 0, absA
		}
	case ar == 0:
		cr, sr, rr = 0, signT(br), absB
	case absA > absB:
		t := br / ar
		u := signT(ar) * scalar.Sqrt(1+t*t)
		cr = 1 / u
		sr = t * cr
		rr = ar * u
	default:
		t := ar / br
		u := signT(br) * scalar.Sqrt(1+t*t)
		sr = 1 / u
		cr = t * sr
		rr = br * u
	}
	return cr, scalar.FromReal[FC, T](sr), scalar.FromReal[FC, T](rr)
}

func signT[T scalar.Real](x T) T {
	if x < 0 {
		return -1
	}
	return 1
}

// symGivensComplex handles a, b drawn from a complex field (SymGivens sends
// every complex FC here, whatever the values). r keeps the phase of a, so
// it is real only when a is real, and then carries a's sign.
func symGivensComplex[FC scalar.Field, T scalar.Real](a, b FC) (c T, s FC, r FC) {
	absA := scalar.Abs[FC, T](a)
	absB := scalar.Abs[FC, T](b)

	switch {
	case absB == 0:
		return 1, scalar.Zero[FC](), a
	case absA == 0:
		return 0, scalar.One[FC](), b
	}

	var rho T
	if absA >= absB {
		t := absB / absA
		rho = absA * scalar.Sqrt(1+t*t)
	} else {
		t := absA / absB
		rho = absB * scalar.Sqrt(1+t*t)
	}

	c = absA / rho
	s = (b * scalar.Conj(a)) / scalar.FromReal[FC, T](rho*absA)
	r = a * scalar.FromReal[FC, T](rho/absA)
	return c, s, r
}
