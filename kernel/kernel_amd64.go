//go:build amd64 && !nogokrylovsimd

package kernel

import (
	"math"

	"golang.org/x/sys/cpu"
)

// amd64 float32 kernels. Loop-unrolled so the compiler can auto-vectorize
// with AVX2/SSE; true AVX2 assembly can be dropped in behind the same
// signatures later without touching a caller.

// hasAVX2 probes the CPU once at init and picks the unroll width every call
// below branches on: 8-wide (256-bit AVX2 lanes) when available, 4-wide
// (128-bit SSE2) otherwise.
var hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasFMA

func axpyF32(n int, alpha float32, x, y []float32) {
	if hasAVX2 {
		axpyF32AVX2(n, alpha, x, y)
		return
	}
	axpyF32SSE2(n, alpha, x, y)
}

func axpyF32AVX2(n int, alpha float32, x, y []float32) {
	i := 0
	for ; i <= n-8; i += 8 {
		y[i] += alpha * x[i]
		y[i+1] += alpha * x[i+1]
		y[i+2] += alpha * x[i+2]
		y[i+3] += alpha * x[i+3]
		y[i+4] += alpha * x[i+4]
		y[i+5] += alpha * x[i+5]
		y[i+6] += alpha * x[i+6]
		y[i+7] += alpha * x[i+7]
	}
	for ; i < n; i++ {
		y[i] += alpha * x[i]
	}
}

func axpyF32SSE2(n int, alpha float32, x, y []float32) {
	i := 0
	for ; i <= n-4; i += 4 {
		y[i] += alpha * x[i]
		y[i+1] += alpha * x[i+1]
		y[i+2] += alpha * x[i+2]
		y[i+3] += alpha * x[i+3]
	}
	for ; i < n; i++ {
		y[i] += alpha * x[i]
	}
}

func dotF32(n int, x, y []float32) float32 {
	if hasAVX2 {
		return dotF32AVX2(n, x, y)
	}
	return dotF32SSE2(n, x, y)
}

func dotF32AVX2(n int, x, y []float32) float32 {
	var sum0, sum1, sum2, sum3, sum4, sum5, sum6, sum7 float32
	i := 0
	for ; i <= n-8; i += 8 {
		sum0 += x[i] * y[i]
		sum1 += x[i+1] * y[i+1]
		sum2 += x[i+2] * y[i+2]
		sum3 += x[i+3] * y[i+3]
		sum4 += x[i+4] * y[i+4]
		sum5 += x[i+5] * y[i+5]
		sum6 += x[i+6] * y[i+6]
		sum7 += x[i+7] * y[i+7]
	}
	sum := sum0 + sum1 + sum2 + sum3 + sum4 + sum5 + sum6 + sum7
	for ; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

func dotF32SSE2(n int, x, y []float32) float32 {
	var sum0, sum1, sum2, sum3 float32
	i := 0
	for ; i <= n-4; i += 4 {
		sum0 += x[i] * y[i]
		sum1 += x[i+1] * y[i+1]
		sum2 += x[i+2] * y[i+2]
		sum3 += x[i+3] * y[i+3]
	}
	sum := sum0 + sum1 + sum2 + sum3
	for ; i < n; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

func nrm2F32(n int, x []float32) float32 {
	return float32(math.Sqrt(float64(dotF32(n, x, x))))
}
