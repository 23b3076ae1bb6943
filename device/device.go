// Package device models the "device residency" contract a solver's kernel
// calls could be retargeted through: the same Axpy/Axpby/Scal/Dot/Dotr/Nrm2
// surface package kernel exposes on host slices, but behind an interface so
// a caller can swap in an accelerated backend without the cg/gmres/cgne/
// minres packages — which are written directly against kernel's host
// slices — knowing or caring. It is a demonstration of how the same
// algorithm retargets, not a second solver implementation: nothing in this
// repository's solvers imports this package.
package device

import "github.com/orneryd/gokrylov/scalar"

// Vector is the opaque handle a Backend operates on. For the host backend
// it is literally the slice; an accelerated backend could make it a buffer
// ID or device pointer instead, as long as its length is tracked out of
// band and Len reports it.
type Vector[FC scalar.Field] interface {
	Len() int
}

// Backend performs the handful of BLAS-1-style operations every Krylov
// method needs, against whatever residency Vector happens to have.
type Backend[FC scalar.Field, T scalar.Real] interface {
	// NewVector allocates a zeroed vector of length n on this backend.
	NewVector(n int) Vector[FC]
	// Upload copies host data into a backend vector.
	Upload(dst Vector[FC], src []FC)
	// Download copies a backend vector back into host memory.
	Download(dst []FC, src Vector[FC])

	Axpy(alpha FC, x, y Vector[FC])
	Axpby(alpha FC, x Vector[FC], beta FC, y Vector[FC])
	Scal(alpha FC, x Vector[FC])
	Dot(x, y Vector[FC]) FC
	Dotr(x, y Vector[FC]) T
	Nrm2(x Vector[FC]) T
}
