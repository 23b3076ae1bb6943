//go:build arm64 && !nogokrylovsimd

package kernel

import "github.com/viterin/vek/vek32"

// arm64 float32 kernels. vek32 exposes NEON-accelerated dot/norm but no
// fused multiply-add, so axpy stays a plain loop (the compiler still
// auto-vectorizes it); dot and nrm2 delegate to vek32 directly, exactly as
// NornicDB's pkg/simd does on arm64.

func axpyF32(n int, alpha float32, x, y []float32) {
	for i := 0; i < n; i++ {
		y[i] += alpha * x[i]
	}
}

func dotF32(n int, x, y []float32) float32 {
	if n == 0 {
		return 0
	}
	return vek32.Dot(x[:n], y[:n])
}

func nrm2F32(n int, x []float32) float32 {
	if n == 0 {
		return 0
	}
	return vek32.Norm(x[:n])
}
