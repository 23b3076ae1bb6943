// Package kernel provides the in-place BLAS-level vector primitives every
// solver kernel is built from: axpy, axpby, scal, dot, dotr and nrm2. All
// operate on contiguous slices of matching length and perform no
// allocation, so they are safe to call from an inner loop and safe to
// retarget onto a device-resident backend (see package device).
//
// The float32 instantiation of axpy, dot and nrm2 is additionally
// accelerated: on amd64 all three unroll for auto-vectorization, and
// everywhere else dot and nrm2 use github.com/viterin/vek's vek32 kernels
// while axpy stays a plain loop, mirroring the three-way dispatch
// NornicDB's pkg/simd uses for its own cosine-similarity/dot-product
// kernels. Every other scalar type (float64, complex64, complex128) uses
// the generic loop directly; vek has no complex or float64 kernel set.
package kernel

import "github.com/orneryd/gokrylov/scalar"

// Axpy computes y <- alpha*x + y in place.
func Axpy[FC scalar.Field](n int, alpha FC, x, y []FC) {
	if fc, ok := any(alpha).(float32); ok {
		axpyF32(n, fc, any(x).([]float32), any(y).([]float32))
		return
	}
	for i := 0; i < n; i++ {
		y[i] += alpha * x[i]
	}
}

// Axpby computes y <- alpha*x + beta*y in place.
func Axpby[FC scalar.Field](n int, alpha FC, x []FC, beta FC, y []FC) {
	for i := 0; i < n; i++ {
		y[i] = alpha*x[i] + beta*y[i]
	}
}

// Scal computes x <- alpha*x in place.
func Scal[FC scalar.Field](n int, alpha FC, x []FC) {
	for i := 0; i < n; i++ {
		x[i] *= alpha
	}
}

// Dot returns sum(conj(x[i]) * y[i]).
func Dot[FC scalar.Field](n int, x, y []FC) FC {
	if xf, ok := any(x).([]float32); ok {
		return any(dotF32(n, xf, any(y).([]float32))).(FC)
	}
	var sum FC
	for i := 0; i < n; i++ {
		sum += scalar.Conj(x[i]) * y[i]
	}
	return sum
}

// Dotr returns Re(sum(conj(x[i]) * y[i])) as T.
func Dotr[FC scalar.Field, T scalar.Real](n int, x, y []FC) T {
	return scalar.RealPart[FC, T](Dot(n, x, y))
}

// Nrm2 returns sqrt(Re(x^H x)).
func Nrm2[FC scalar.Field, T scalar.Real](n int, x []FC) T {
	if xf, ok := any(x).([]float32); ok {
		return T(nrm2F32(n, xf))
	}
	return scalar.Sqrt(Dotr[FC, T](n, x, x))
}

// Copy copies src into dst, both of length n.
func Copy[FC scalar.Field](n int, dst, src []FC) {
	copy(dst[:n], src[:n])
}

// Fill sets every one of the first n entries of x to alpha.
func Fill[FC scalar.Field](n int, x []FC, alpha FC) {
	for i := 0; i < n; i++ {
		x[i] = alpha
	}
}
