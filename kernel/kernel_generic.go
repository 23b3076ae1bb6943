//go:build (!amd64 && !arm64) || nogokrylovsimd

package kernel

import "github.com/viterin/vek/vek32"

// Fallback float32 kernels for platforms without a dedicated unrolled or
// NEON path, and for builds with nogokrylovsimd set (useful for comparing
// against the accelerated paths in benchmarks). Still uses vek32, which
// Nornic's pkg/simd documents as "still faster than naive loops due to
// better memory access patterns" even on platforms without hand-tuned SIMD.

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
