package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fadebatch/internal/queue"
)

type historyRunJSON struct {
	ID             string  `json:"id"`
	StartedAt      string  `json:"started_at"`
	FinishedAt     string  `json:"finished_at,omitempty"`
	Cancelled      bool    `json:"cancelled"`
	Total          int     `json:"total"`
	Processed      int     `json:"processed"`
	FadeInPreset   string  `json:"fade_in_preset"`
	FadeOutPreset  string  `json:"fade_out_preset"`
	FadeInSeconds  float64 `json:"fade_in_seconds"`
	FadeOutSeconds float64 `json:"fade_out_seconds"`
}

type historyDetailJSON struct {
	Run     historyRunJSON  `json:"run"`
	Results []runResultJSON `json:"results"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent runs, or the per-file results of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				run, err := store.FindRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				results, err := store.RunResults(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if jsonOutput {
					detail := historyDetailJSON{Run: buildHistoryRunJSON(run), Results: make([]runResultJSON, 0, len(results))}
					for _, r := range results {
						detail.Results = append(detail.Results, runResultJSON{
							Index:   r.Position + 1,
							Path:    r.Path,
							Outcome: string(r.Outcome.Kind),
							Code:    r.Outcome.Code,
							Message: r.Outcome.Message,
						})
					}
					return writeJSON(cmd, detail)
				}
				printRunDetail(cmd, run, results)
				return nil
			}

			runs, err := store.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				view := make([]historyRunJSON, 0, len(runs))
				for _, run := range runs {
					view = append(view, buildHistoryRunJSON(run))
				}
				return writeJSON(cmd, view)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			now := timeNow()
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					relativeTime(run.StartedAt, now),
					formatDuration(run.Duration()),
					fmt.Sprintf("%d/%d", run.Processed, run.Total),
					runStatus(run),
					fmt.Sprintf("%s / %s", run.FadeInPreset, run.FadeOutPreset),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "Started", "Duration", "Files", "Status", "Presets"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printRunDetail(cmd *cobra.Command, run queue.Run, results []queue.RunResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:       %s\n", run.ID)
	fmt.Fprintf(out, "Started:   %s\n", formatTimestamp(run.StartedAt))
	fmt.Fprintf(out, "Duration:  %s\n", formatDuration(run.Duration()))
	fmt.Fprintf(out, "Status:    %s (%d of %d file(s))\n", runStatus(run), run.Processed, run.Total)
	fmt.Fprintf(out, "Fade in:   %s (%gs)\n", run.FadeInPreset, run.FadeInSeconds)
	fmt.Fprintf(out, "Fade out:  %s (%gs)\n", run.FadeOutPreset, run.FadeOutSeconds)
	if len(results) == 0 {
		return
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{strconv.Itoa(r.Position + 1), r.Path, outcomeLabel(r.Outcome)})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "File", "Outcome"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}

func buildHistoryRunJSON(run queue.Run) historyRunJSON {
	return historyRunJSON{
		ID:             run.ID,
		StartedAt:      formatTimestamp(run.StartedAt),
		FinishedAt:     formatTimestamp(run.FinishedAt),
		Cancelled:      run.Cancelled,
		Total:          run.Total,
		Processed:      run.Processed,
		FadeInPreset:   run.FadeInPreset,
		FadeOutPreset:  run.FadeOutPreset,
		FadeInSeconds:  run.FadeInSeconds,
		FadeOutSeconds: run.FadeOutSeconds,
	}
}

func runStatus(run queue.Run) string {
	if run.Cancelled {
		return "cancelled"
	}
	return "finished"
}

func shortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok {
		return head
	}
	return id
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
