package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"fadebatch/internal/fadebatch"
	"fadebatch/internal/logging"
	"fadebatch/internal/preflight"
	"fadebatch/internal/preset"
	"fadebatch/internal/progress"
	"fadebatch/internal/queue"
	"fadebatch/internal/runlock"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		fadeInPreset  string
		fadeOutPreset string
		fadeIn        float64
		fadeOut       float64
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply the fade presets to every queued file",
		Long: "Apply the fade-in preset to the start and the fade-out preset to the end of every\n" +
			"queued file, one undoable transaction per file. Press Ctrl+C to stop after the\n" +
			"current file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock, err := runlock.Acquire(cfg.RunLockPath())
			if err != nil {
				return err
			}
			defer lock.Release()

			logger := ctx.ensureLogger()
			h, err := ctx.newHost()
			if err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg, h)); len(failed) > 0 {
				return preflightError(failed)
			}

			catalog := preset.NewCatalog(h)
			if _, err := catalog.Refresh(cmd.Context(), cfg.Fade.EffectName); err != nil {
				return err
			}

			sel := preset.Selection{
				FadeInPreset:   cfg.Fade.FadeInPreset,
				FadeOutPreset:  cfg.Fade.FadeOutPreset,
				FadeInSeconds:  cfg.Fade.FadeInSeconds,
				FadeOutSeconds: cfg.Fade.FadeOutSeconds,
			}
			flags := cmd.Flags()
			if flags.Changed("fade-in-preset") {
				sel.FadeInPreset = fadeInPreset
			}
			if flags.Changed("fade-out-preset") {
				sel.FadeOutPreset = fadeOutPreset
			}
			if flags.Changed("fade-in") {
				sel.FadeInSeconds = fadeIn
			}
			if flags.Changed("fade-out") {
				sel.FadeOutSeconds = fadeOut
			}
			if sel, err = catalog.Resolve(sel); err != nil {
				return err
			}

			q, store, err := ctx.loadQueue(cmd)
			if err != nil {
				return err
			}
			if q.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty; nothing to fade")
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			persistCtx := context.WithoutCancel(runCtx)

			ch := &progress.Channel{}
			reporter := newProgressReporter(cmd.ErrOrStderr(), logger)
			ch.Subscribe(reporter.update)

			driver := fadebatch.New(h, catalog, ch, fadebatch.Options{
				Logger:           logger,
				OperationTimeout: cfg.OperationTimeout(),
				OnItem: func(fadebatch.ItemResult) {
					if err := store.Save(persistCtx, q); err != nil {
						logging.WarnWithContext(logger, "failed to persist queue outcomes", "queue_save_failed",
							logging.Error(err),
							logging.Impact("outcomes shown in this run may be lost"),
						)
					}
				},
			})

			report, err := driver.Run(runCtx, q, sel)
			reporter.finish()
			if err != nil {
				return err
			}

			if err := store.Save(persistCtx, q); err != nil {
				return err
			}
			if !report.Empty() {
				run, results := report.Record()
				if err := store.RecordRun(persistCtx, run, results); err != nil {
					return err
				}
			}

			if jsonOutput {
				return writeJSON(cmd, buildRunReportJSON(report))
			}
			printRunReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&fadeInPreset, "fade-in-preset", "", "Preset applied to the start of each file")
	cmd.Flags().StringVar(&fadeOutPreset, "fade-out-preset", "", "Preset applied to the end of each file")
	cmd.Flags().Float64Var(&fadeIn, "fade-in", 0, "Fade-in length in seconds")
	cmd.Flags().Float64Var(&fadeOut, "fade-out", 0, "Fade-out length in seconds")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run report as JSON")
	return cmd
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}

type runResultJSON struct {
	Index   int    `json:"index"`
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type runReportJSON struct {
	RunID          string          `json:"run_id,omitempty"`
	StartedAt      string          `json:"started_at,omitempty"`
	FinishedAt     string          `json:"finished_at,omitempty"`
	Cancelled      bool            `json:"cancelled"`
	Total          int             `json:"total"`
	Processed      int             `json:"processed"`
	Failed         int             `json:"failed"`
	FadeInPreset   string          `json:"fade_in_preset,omitempty"`
	FadeOutPreset  string          `json:"fade_out_preset,omitempty"`
	FadeInSeconds  float64         `json:"fade_in_seconds"`
	FadeOutSeconds float64         `json:"fade_out_seconds"`
	Results        []runResultJSON `json:"results"`
}

func buildRunReportJSON(report fadebatch.Report) runReportJSON {
	out := runReportJSON{
		RunID:          report.RunID,
		StartedAt:      formatTimestamp(report.StartedAt),
		FinishedAt:     formatTimestamp(report.FinishedAt),
		Cancelled:      report.Cancelled,
		Total:          report.Total,
		Processed:      report.Processed,
		Failed:         report.Failed(),
		FadeInPreset:   report.Selection.FadeInPreset,
		FadeOutPreset:  report.Selection.FadeOutPreset,
		FadeInSeconds:  report.Selection.FadeInSeconds,
		FadeOutSeconds: report.Selection.FadeOutSeconds,
		Results:        make([]runResultJSON, 0, len(report.Results)),
	}
	for _, result := range report.Results {
		out.Results = append(out.Results, runResultJSON{
			Index:   result.Index + 1,
			Path:    result.Path,
			Outcome: string(result.Outcome.Kind),
			Code:    result.Outcome.Code,
			Message: result.Outcome.Message,
		})
	}
	return out
}

func printRunReport(cmd *cobra.Command, report fadebatch.Report) {
	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, []string{
			strconv.Itoa(result.Index + 1),
			result.Path,
			outcomeLabel(result.Outcome),
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(out,
			[]string{"#", "File", "Outcome"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft},
		))
	}

	failed := report.Failed()
	succeeded := report.Counts()[queue.OutcomeSuccess]
	status := "finished"
	if report.Cancelled {
		status = "cancelled"
	}
	fmt.Fprintf(out, "Run %s %s: processed %d of %d file(s), %d succeeded, %d failed\n",
		shortID(report.RunID), status, report.Processed, report.Total, succeeded, failed)
}
