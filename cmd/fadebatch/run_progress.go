package main

import (
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"

	"fadebatch/internal/logging"
	"fadebatch/internal/progress"
)

// progressReporter renders driver progress as a bar on terminals and as
// sampled log lines everywhere else.
type progressReporter struct {
	out     io.Writer
	logger  *slog.Logger
	useBar  bool
	sampler *logging.ProgressSampler

	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	cancelled bool
}

func newProgressReporter(out io.Writer, logger *slog.Logger) *progressReporter {
	return &progressReporter{
		out:     out,
		logger:  logger,
		useBar:  isTerminal(out),
		sampler: logging.NewProgressSampler(10),
	}
}

func (p *progressReporter) update(snap progress.Snapshot) {
	if snap.Total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if snap.CancelRequested && !p.cancelled {
		p.cancelled = true
		p.logger.Info("cancel requested; stopping after the current file",
			logging.Int("completed", snap.Completed),
			logging.Int("total", snap.Total),
		)
	}

	if !p.useBar {
		if p.sampler.ShouldLog(snap.Completed, snap.Total) {
			p.logger.Info("batch progress",
				logging.Int("completed", snap.Completed),
				logging.Int("total", snap.Total),
				logging.Float64("percent", snap.Percent()),
			)
		}
		return
	}

	if p.bar == nil {
		p.bar = progressbar.NewOptions(snap.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("Fading"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	if snap.CancelRequested {
		p.bar.Describe("Cancelling")
	}
	_ = p.bar.Set(snap.Completed)
}

func (p *progressReporter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	p.sampler.Reset()
}
