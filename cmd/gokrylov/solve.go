package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orneryd/gokrylov/archive"
	"github.com/orneryd/gokrylov/cg"
	"github.com/orneryd/gokrylov/config"
	"github.com/orneryd/gokrylov/gmres"
	"github.com/orneryd/gokrylov/kernel"
	"github.com/orneryd/gokrylov/operator"
)

func newSolveCmd() *cobra.Command {
	var (
		matrixPath string
		diagSize   int
		method     string
		configPath string
		archiveDir string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve Ax = b and report convergence statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				A operator.LinearOperator[float64]
				b []float64
				n int
			)

			switch {
			case matrixPath != "":
				op, size, err := loadMatrixMarket(matrixPath)
				if err != nil {
					return err
				}
				A, n = op, size
				b = make([]float64, n)
				for i := range b {
					b[i] = 1
				}
			case diagSize > 0:
				op, rhs := diagonalProblem(diagSize)
				A, b, n = op, rhs, diagSize
			default:
				return fmt.Errorf("solve: one of --matrix or --diag is required")
			}

			if configPath == "" {
				configPath = config.FindConfigFile()
			}
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}

			start := time.Now()
			var (
				niter    int
				solved   bool
				status   string
				resNorm  float64
			)

			switch method {
			case "cg":
				opts := config.ApplyCG(cfg, cg.Options[float64, float64]{})
				ws, err := cg.Solve[float64, float64](A, b, opts)
				if err != nil {
					return err
				}
				niter, solved, status = ws.Stats.Niter, ws.Stats.Solved, ws.Stats.Status.String()
				resNorm = residual(A, b, ws.X, n)
			case "gmres":
				opts := config.ApplyGMRES(cfg, gmres.Options[float64, float64]{})
				ws, err := gmres.Solve[float64, float64](A, b, opts)
				if err != nil {
					return err
				}
				niter, solved, status = ws.Stats.Niter, ws.Stats.Solved, ws.Stats.Status.String()
				resNorm = residual(A, b, ws.X, n)
			default:
				return fmt.Errorf("solve: unknown method %q (want cg or gmres)", method)
			}
			elapsed := time.Since(start)

			fmt.Printf("method:    %s\n", method)
			fmt.Printf("n:         %d\n", n)
			fmt.Printf("iterations: %d\n", niter)
			fmt.Printf("solved:    %v\n", solved)
			fmt.Printf("status:    %s\n", status)
			fmt.Printf("residual:  %.3e\n", resNorm)
			fmt.Printf("elapsed:   %s\n", elapsed)

			if archiveDir != "" {
				store, err := archive.Open(archiveDir)
				if err != nil {
					return err
				}
				defer store.Close()
				_, err = store.Save(archive.Record{
					Method: method, N: n, Niter: niter, Solved: solved,
					Status: status, Residual: resNorm,
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&matrixPath, "matrix", "", "path to a Matrix Market (.mtx) file")
	cmd.Flags().IntVar(&diagSize, "diag", 0, "generate a synthetic n x n diagonal SPD system instead of reading a file")
	cmd.Flags().StringVar(&method, "method", "cg", "solver to run: cg or gmres")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a gokrylov config YAML file (default: search via config.FindConfigFile)")
	cmd.Flags().StringVar(&archiveDir, "archive", getEnvStr("GOKRYLOV_ARCHIVE_DIR", ""), "directory for a BadgerDB run archive; empty disables archiving")

	return cmd
}

func residual(A operator.LinearOperator[float64], b, x []float64, n int) float64 {
	ax := make([]float64, n)
	_ = A.Apply(ax, x)
	r := make([]float64, n)
	for i := range r {
		r[i] = b[i] - ax[i]
	}
	return kernel.Nrm2[float64, float64](n, r)
}
