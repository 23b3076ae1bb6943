// Package main provides the gokrylov CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	commit    = "dev"
	buildTime = "unknown" // set via ldflags: -X main.buildTime=$(date +%Y%m%d-%H%M%S)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gokrylov",
		Short: "gokrylov - Krylov subspace linear solvers",
		Long: `gokrylov runs a Krylov subspace iterative method (CG-Lanczos or GMRES)
against a linear system read from a Matrix Market file or generated
synthetically, and reports convergence statistics.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gokrylov v%s (%s) built %s\n", version, commit, buildTime)
		},
	})

	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getEnvStr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
