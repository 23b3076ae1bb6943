//go:build gokrylov_device

// Dynamically loads a system BLAS (OpenBLAS, or the platform reference
// BLAS) via purego and binds cblas_daxpy/cblas_ddot/cblas_dnrm2/
// cblas_dscal, mirroring NornicDB's Vulkan backend's dlopen-and-bind
// approach to calling a native library without cgo. Only float64/float64
// is bound, since cblas's double-precision entry points are what every
// platform's reference BLAS ships; other field types have no Purego
// backend and are served only by Host.
package device

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

func blasLibraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libopenblas.dylib", "/usr/lib/libblas.dylib"}
	case "windows":
		return []string{"libopenblas.dll", "openblas.dll"}
	default:
		return []string{"libopenblas.so.0", "libopenblas.so", "libblas.so.3", "libblas.so"}
	}
}

var (
	blasOnce    sync.Once
	blasHandle  uintptr
	blasErr     error
	blasDaxpy   func(n int32, alpha float64, x *float64, incx int32, y *float64, incy int32)
	blasDdot    func(n int32, x *float64, incx int32, y *float64, incy int32) float64
	blasDnrm2   func(n int32, x *float64, incx int32) float64
	blasDscal   func(n int32, alpha float64, x *float64, incx int32)
)

func loadBLAS() {
	blasOnce.Do(func() {
		var lib uintptr
		var err error
		for _, name := range blasLibraryNames() {
			lib, err = purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err == nil {
				break
			}
		}
		if err != nil {
			blasErr = fmt.Errorf("device: no system BLAS found: %w", err)
			return
		}
		blasHandle = lib
		purego.RegisterLibFunc(&blasDaxpy, lib, "cblas_daxpy")
		purego.RegisterLibFunc(&blasDdot, lib, "cblas_ddot")
		purego.RegisterLibFunc(&blasDnrm2, lib, "cblas_dnrm2")
		purego.RegisterLibFunc(&blasDscal, lib, "cblas_dscal")
	})
}

// BLASAvailable reports whether a system BLAS was found and bound. Callers
// should check this before constructing a Purego backend and fall back to
// Host otherwise.
func BLASAvailable() bool {
	loadBLAS()
	return blasErr == nil
}

type blasVector []float64

func (v blasVector) Len() int { return len(v) }

// Purego is a Backend[float64, float64] that runs every operation through
// a dynamically loaded system BLAS instead of package kernel's pure-Go
// loops. Vectors still live in process memory (there is no true device
// residency here) — this backend demonstrates the dynamic-symbol-lookup
// bridge the device-residency contract calls for, without requiring an
// actual GPU.
type Purego struct{}

// NewPurego returns a Purego backend, or an error if no system BLAS could
// be loaded.
func NewPurego() (Purego, error) {
	loadBLAS()
	return Purego{}, blasErr
}

func (Purego) NewVector(n int) Vector[float64] {
	return make(blasVector, n)
}

func (Purego) Upload(dst Vector[float64], src []float64) {
	copy(dst.(blasVector), src)
}

func (Purego) Download(dst []float64, src Vector[float64]) {
	copy(dst, src.(blasVector))
}

func (Purego) Axpy(alpha float64, x, y Vector[float64]) {
	xs, ys := x.(blasVector), y.(blasVector)
	blasDaxpy(int32(len(xs)), alpha, &xs[0], 1, &ys[0], 1)
}

func (Purego) Axpby(alpha float64, x Vector[float64], beta float64, y Vector[float64]) {
	xs, ys := x.(blasVector), y.(blasVector)
	blasDscal(int32(len(ys)), beta, &ys[0], 1)
	blasDaxpy(int32(len(xs)), alpha, &xs[0], 1, &ys[0], 1)
}

func (Purego) Scal(alpha float64, x Vector[float64]) {
	xs := x.(blasVector)
	blasDscal(int32(len(xs)), alpha, &xs[0], 1)
}

func (Purego) Dot(x, y Vector[float64]) float64 {
	xs, ys := x.(blasVector), y.(blasVector)
	return blasDdot(int32(len(xs)), &xs[0], 1, &ys[0], 1)
}

func (Purego) Dotr(x, y Vector[float64]) float64 {
	xs, ys := x.(blasVector), y.(blasVector)
	return blasDdot(int32(len(xs)), &xs[0], 1, &ys[0], 1)
}

func (Purego) Nrm2(x Vector[float64]) float64 {
	xs := x.(blasVector)
	return blasDnrm2(int32(len(xs)), &xs[0], 1)
}
