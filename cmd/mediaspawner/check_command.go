package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mediaspawner/internal/backup"
	"mediaspawner/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run environment preflight checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := backup.NewClient(cfg)
			authProbe := func(probeCtx context.Context) error {
				status, err := client.AuthStatus(probeCtx)
				if err != nil {
					return err
				}
				if !status.Authenticated {
					return errors.New("token rejected")
				}
				return nil
			}

			results := preflight.RunAll(cmd.Context(), cfg, authProbe)

			if ctx.jsonOutput() {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
					failed++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
}
