//go:build !gokrylov_device

package device

import "errors"

// ErrBLASNotAvailable is returned by NewPurego in the default build,
// which skips the purego/dlopen bridge entirely unless built with
// -tags gokrylov_device.
var ErrBLASNotAvailable = errors.New("device: purego BLAS backend requires build tag gokrylov_device")

// BLASAvailable always reports false under this build tag.
func BLASAvailable() bool { return false }

type blasVector []float64

func (v blasVector) Len() int { return len(v) }

// Purego is a stand-in with the same shape as the dlopen-backed
// implementation; every method panics since NewPurego always fails and no
// caller should be able to construct one.
type Purego struct{}

// NewPurego always fails under this build tag.
func NewPurego() (Purego, error) {
	return Purego{}, ErrBLASNotAvailable
}

func (Purego) NewVector(n int) Vector[float64]                       { panic("device: purego backend unavailable") }
func (Purego) Upload(dst Vector[float64], src []float64)             { panic("device: purego backend unavailable") }
func (Purego) Download(dst []float64, src Vector[float64])           { panic("device: purego backend unavailable") }
func (Purego) Axpy(alpha float64, x, y Vector[float64])              { panic("device: purego backend unavailable") }
func (Purego) Axpby(a float64, x Vector[float64], b float64, y Vector[float64]) {
	panic("device: purego backend unavailable")
}
func (Purego) Scal(alpha float64, x Vector[float64])  { panic("device: purego backend unavailable") }
func (Purego) Dot(x, y Vector[float64]) float64       { panic("device: purego backend unavailable") }
func (Purego) Dotr(x, y Vector[float64]) float64      { panic("device: purego backend unavailable") }
func (Purego) Nrm2(x Vector[float64]) float64         { panic("device: purego backend unavailable") }
