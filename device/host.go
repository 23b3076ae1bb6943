package device

import (
	"github.com/orneryd/gokrylov/kernel"
	"github.com/orneryd/gokrylov/scalar"
)

// hostVector is a Vector backed directly by a host slice.
type hostVector[FC scalar.Field] []FC

func (v hostVector[FC]) Len() int { return len(v) }

// Host is the trivial Backend: every operation is the corresponding
// kernel call over plain Go slices. It exists so callers can depend on
// device.Backend uniformly and swap in Purego (or any future backend)
// without touching call sites.
type Host[FC scalar.Field, T scalar.Real] struct{}

func (Host[FC, T]) NewVector(n int) Vector[FC] {
	return make(hostVector[FC], n)
}

func (Host[FC, T]) Upload(dst Vector[FC], src []FC) {
	kernel.Copy(len(src), dst.(hostVector[FC]), src)
}

func (Host[FC, T]) Download(dst []FC, src Vector[FC]) {
	kernel.Copy(len(dst), dst, src.(hostVector[FC]))
}

func (Host[FC, T]) Axpy(alpha FC, x, y Vector[FC]) {
	xs, ys := x.(hostVector[FC]), y.(hostVector[FC])
	kernel.Axpy(len(xs), alpha, xs, ys)
}

func (Host[FC, T]) Axpby(alpha FC, x Vector[FC], beta FC, y Vector[FC]) {
	xs, ys := x.(hostVector[FC]), y.(hostVector[FC])
	kernel.Axpby(len(xs), alpha, xs, beta, ys)
}

func (Host[FC, T]) Scal(alpha FC, x Vector[FC]) {
	xs := x.(hostVector[FC])
	kernel.Scal(len(xs), alpha, xs)
}

func (Host[FC, T]) Dot(x, y Vector[FC]) FC {
	xs, ys := x.(hostVector[FC]), y.(hostVector[FC])
	return kernel.Dot(len(xs), xs, ys)
}

func (Host[FC, T]) Dotr(x, y Vector[FC]) T {
	xs, ys := x.(hostVector[FC]), y.(hostVector[FC])
	return kernel.Dotr[FC, T](len(xs), xs, ys)
}

func (Host[FC, T]) Nrm2(x Vector[FC]) T {
	xs := x.(hostVector[FC])
	return kernel.Nrm2[FC, T](len(xs), xs)
}
