package fadebatch

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"fadebatch/internal/host"
	"fadebatch/internal/logging"
	"fadebatch/internal/preset"
	"fadebatch/internal/progress"
	"fadebatch/internal/queue"
	"fadebatch/internal/services"
)

// UndoLabel names the per-file undo transaction.
const UndoLabel = "Fade In and Out"

// Options tunes a Driver.
type Options struct {
	Logger *slog.Logger
	// OperationTimeout bounds each host wait. Zero waits until the host answers.
	OperationTimeout time.Duration
	// OnItem is called on the run goroutine after each attempted file.
	OnItem func(ItemResult)
	// Now overrides the clock used for report timestamps.
	Now func() time.Time
}

// Driver runs batches against a host. One run may be active at a time.
type Driver struct {
	host     host.Host
	catalog  *preset.Catalog
	progress *progress.Channel
	logger   *slog.Logger
	opts     Options

	mu            sync.Mutex
	phase         Phase
	cancelPending bool
	processed     int
	total         int
	active        host.File
}

// New constructs a Driver. A nil progress channel gets a private one.
func New(h host.Host, catalog *preset.Catalog, ch *progress.Channel, opts Options) *Driver {
	if ch == nil {
		ch = &progress.Channel{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		host:     h,
		catalog:  catalog,
		progress: ch,
		logger:   logging.NewComponentLogger(opts.Logger, "fadebatch"),
		opts:     opts,
	}
}

// Progress returns the channel the driver reports to.
func (d *Driver) Progress() *progress.Channel {
	return d.progress
}

// State returns a snapshot of the driver.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	cancelRequested := d.progress.CancelRequested() || d.cancelPending
	phase := d.phase
	if phase == PhaseRunning && cancelRequested {
		phase = PhaseCancelling
	}
	return State{
		Phase:           phase,
		Running:         phase != PhaseIdle,
		CancelRequested: cancelRequested,
		Processed:       d.processed,
		Total:           d.total,
	}
}

// Cancel requests a cooperative stop of the active run and asks the host to
// abort the operation in flight. A request made while the run is still
// validating is held and stops the run before its first item. Cancel reports
// whether this call made the request; calls while idle or after an earlier
// request return false.
func (d *Driver) Cancel() bool {
	d.mu.Lock()
	switch d.phase {
	case PhaseValidating:
		accepted := !d.cancelPending
		d.cancelPending = true
		d.mu.Unlock()
		return accepted
	case PhaseRunning:
		d.phase = PhaseCancelling
		d.mu.Unlock()
		return d.progress.RequestCancel()
	default:
		d.mu.Unlock()
		return false
	}
}

// Run processes every item of q with the given selection. Configuration
// problems are returned before any file is touched; per-file failures are
// recorded on q and in the report. Cancelling ctx has the same effect as
// Cancel.
func (d *Driver) Run(ctx context.Context, q *queue.Queue, sel preset.Selection) (Report, error) {
	d.mu.Lock()
	if d.phase != PhaseIdle {
		d.mu.Unlock()
		return Report{}, ErrRunInProgress
	}
	d.phase = PhaseValidating
	d.mu.Unlock()
	defer d.finish()

	effect, err := d.preflight(sel)
	if err != nil {
		return Report{}, err
	}

	items := q.Active()
	if len(items) == 0 {
		d.logger.Debug("batch run skipped", logging.String("reason", "queue is empty"))
		return Report{}, nil
	}

	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: d.opts.Now(),
		Total:     len(items),
		Selection: sel,
	}
	ctx = services.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, d.logger)

	q.ClearOutcomes()
	d.progress.Reset()
	d.progress.SetTotal(len(items))
	d.progress.OnCancel(d.abortActive)

	d.mu.Lock()
	d.phase = PhaseRunning
	d.processed = 0
	d.total = len(items)
	pending := d.cancelPending
	d.cancelPending = false
	if pending {
		d.phase = PhaseCancelling
	}
	d.mu.Unlock()
	if pending {
		d.progress.RequestCancel()
	}

	stop := context.AfterFunc(ctx, func() { d.Cancel() })
	defer stop()

	logger.Info("batch run started",
		logging.Int("total", len(items)),
		logging.String("fade_in_preset", sel.FadeInPreset),
		logging.String("fade_out_preset", sel.FadeOutPreset),
		logging.Float64("fade_in_seconds", sel.FadeInSeconds),
		logging.Float64("fade_out_seconds", sel.FadeOutSeconds),
	)

	allow := q.Allow()
	for idx, item := range items {
		if ctx.Err() != nil || d.progress.CancelRequested() {
			report.Cancelled = true
			break
		}

		r := &itemRun{
			driver: d,
			effect: effect,
			sel:    sel,
			path:   item.Path(),
			ctx:    services.WithItemPath(ctx, item.Path()),
		}
		outcome := r.process(allow)

		q.Annotate(item.Path(), outcome)
		d.progress.Tick()
		d.mu.Lock()
		d.processed++
		d.mu.Unlock()

		result := ItemResult{Index: idx, Path: item.Path(), Outcome: outcome}
		report.Results = append(report.Results, result)
		if d.opts.OnItem != nil {
			d.opts.OnItem(result)
		}
	}

	report.Processed = len(report.Results)
	report.FinishedAt = d.opts.Now()

	attrs := []logging.Attr{
		logging.Int("processed", report.Processed),
		logging.Int("total", report.Total),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	}
	if report.Cancelled {
		logger.Info("batch run cancelled", logging.Args(attrs...)...)
	} else {
		logger.Info("batch run finished", logging.Args(attrs...)...)
	}
	return report, nil
}

func (d *Driver) preflight(sel preset.Selection) (host.Effect, error) {
	if d.catalog == nil || d.catalog.IsEmpty() || !d.catalog.Contains(sel.FadeInPreset) {
		return nil, ErrFadeInPresetMissing
	}
	if !d.catalog.Contains(sel.FadeOutPreset) {
		return nil, ErrFadeOutPresetMissing
	}
	if !validSeconds(sel.FadeInSeconds) || !validSeconds(sel.FadeOutSeconds) {
		return nil, ErrInvalidFadeTime
	}
	effect := d.catalog.Effect()
	if effect == nil {
		return nil, preset.ErrEffectNotFound
	}
	return effect, nil
}

func validSeconds(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// finish returns the driver to idle. It runs even when a fault escapes Run.
func (d *Driver) finish() {
	d.mu.Lock()
	d.phase = PhaseIdle
	d.cancelPending = false
	d.active = nil
	d.mu.Unlock()
	d.progress.Reset()
}

func (d *Driver) setActive(f host.File) {
	d.mu.Lock()
	d.active = f
	d.mu.Unlock()
}

func (d *Driver) abortActive() {
	d.mu.Lock()
	f := d.active
	d.mu.Unlock()
	if f != nil {
		f.CancelCurrentOperation()
	}
}
