package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/orneryd/gokrylov/kernel"
)

func newBenchCmd() *cobra.Command {
	var n int
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Microbenchmark the vector kernels (axpy, dot, nrm2)",
		RunE: func(cmd *cobra.Command, args []string) error {
			x := make([]float64, n)
			y := make([]float64, n)
			for i := range x {
				x[i] = float64(i%7) + 1
				y[i] = float64(i%5) + 1
			}

			report := func(name string, op func()) {
				start := time.Now()
				iters := 0
				for time.Since(start) < duration {
					op()
					iters++
				}
				elapsed := time.Since(start)
				opsPerSec := float64(iters) / elapsed.Seconds()
				bytesPerOp := uint64(n) * 8 * 2 // two float64 slices touched
				throughput := uint64(opsPerSec * float64(bytesPerOp))
				fmt.Printf("%-6s n=%-8s iters=%-10s %s/s  (%s/s)\n",
					name, humanize.Comma(int64(n)), humanize.Comma(int64(iters)),
					humanize.Comma(int64(opsPerSec)), humanize.Bytes(throughput))
			}

			report("axpy", func() { kernel.Axpy(n, 2.0, x, y) })
			report("dot", func() { _ = kernel.Dot(n, x, y) })
			report("nrm2", func() { _ = kernel.Nrm2[float64, float64](n, x) })

			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 1_000_000, "vector length")
	cmd.Flags().DurationVar(&duration, "duration", 500*time.Millisecond, "how long to run each microbenchmark")

	return cmd
}
