package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fadebatch/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories, external tools, and the fade effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			h, err := ctx.newHost()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, h)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
