package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fadebatch/internal/config"
)

type editJSON struct {
	TransactionID string `json:"transaction_id"`
	Label         string `json:"label"`
	Effect        string `json:"effect"`
	Preset        string `json:"preset"`
	Start         int64  `json:"start"`
	Length        int64  `json:"length"`
	State         string `json:"state"`
	CreatedAt     string `json:"created_at"`
}

func newEditsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "edits <path>",
		Short: "Show the rehearsal edit journal for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			edits, err := store.Edits(cmd.Context(), path)
			if err != nil {
				return err
			}

			if jsonOutput {
				view := make([]editJSON, 0, len(edits))
				for _, e := range edits {
					view = append(view, editJSON{
						TransactionID: e.TransactionID,
						Label:         e.Label,
						Effect:        e.Effect,
						Preset:        e.Preset,
						Start:         e.Start,
						Length:        e.Length,
						State:         string(e.State),
						CreatedAt:     formatTimestamp(e.CreatedAt),
					})
				}
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if len(edits) == 0 {
				fmt.Fprintf(out, "No edits recorded for %s\n", path)
				return nil
			}
			now := timeNow()
			rows := make([][]string, 0, len(edits))
			for i, e := range edits {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					shortID(e.TransactionID),
					e.Preset,
					humanize.Comma(e.Start),
					humanize.Comma(e.Length),
					string(e.State),
					relativeTime(e.CreatedAt, now),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Transaction", "Preset", "Start", "Samples", "State", "When"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
