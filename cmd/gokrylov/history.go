package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orneryd/gokrylov/archive"
)

func newHistoryCmd() *cobra.Command {
	var archiveDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived solve runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.Open(archiveDir)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no archived runs")
				return nil
			}

			for _, r := range records {
				fmt.Printf("%s  %s  method=%-6s n=%-8d iters=%-6d solved=%-5v residual=%.3e  %s\n",
					r.Timestamp.Format("2006-01-02 15:04:05"), r.UUID, r.Method, r.N, r.Niter, r.Solved, r.Residual, r.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&archiveDir, "archive", getEnvStr("GOKRYLOV_ARCHIVE_DIR", "./gokrylov-archive"), "directory of the BadgerDB run archive")

	return cmd
}
