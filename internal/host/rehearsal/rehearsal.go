// Package rehearsal implements host.Host without touching media. Files are
// probed with ffprobe to learn their length, and every effect application is
// written to an edit journal whose entries are committed or discarded with
// their undo transaction. Operators use it to check a batch end to end before
// running it inside a real editor.
package rehearsal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"fadebatch/internal/config"
	"fadebatch/internal/host"
	"fadebatch/internal/logging"
	"fadebatch/internal/media/ffprobe"
	"fadebatch/internal/queue"
)

// Journal records effect applications. *queue.Store satisfies it.
type Journal interface {
	AppendEdit(ctx context.Context, edit queue.Edit) (int64, error)
	ResolveEdits(ctx context.Context, transactionID string, committed bool) (int64, error)
}

// Prober inspects a media file.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Host is a rehearsal host.Host.
type Host struct {
	effects     []*effect
	probe       Prober
	journal     Journal
	defaultRate int
	logger      *slog.Logger

	mu    sync.Mutex
	files map[string]*File
}

// New builds a rehearsal host from config. A nil journal disables journaling.
func New(cfg *config.Config, journal Journal, logger *slog.Logger) *Host {
	binary := cfg.Host.FFprobeBinary
	probe := func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, binary, path)
	}
	h := NewWithProber(probe, journal, cfg.Host.DefaultSampleRate, logger)
	for _, e := range cfg.Host.Effects {
		h.effects = append(h.effects, &effect{name: e.Name, presets: slices.Clone(e.Presets)})
	}
	return h
}

// NewWithProber builds a rehearsal host with no effects around an explicit
// prober. Use AddEffect to declare effects.
func NewWithProber(probe Prober, journal Journal, defaultRate int, logger *slog.Logger) *Host {
	if defaultRate <= 0 {
		defaultRate = 48000
	}
	return &Host{
		probe:       probe,
		journal:     journal,
		defaultRate: defaultRate,
		logger:      logging.NewComponentLogger(logger, "rehearsal"),
		files:       make(map[string]*File),
	}
}

// AddEffect declares an effect and its presets.
func (h *Host) AddEffect(name string, presets ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.effects = append(h.effects, &effect{name: name, presets: slices.Clone(presets)})
}

func (h *Host) FindEffect(_ context.Context, name string) (host.Effect, bool, error) {
	name = strings.TrimSpace(name)
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.effects {
		if strings.EqualFold(e.name, name) {
			return e, true, nil
		}
	}
	return nil, false, nil
}

func (h *Host) FindOpenFile(_ context.Context, path string) (host.File, bool, error) {
	full, ok := queue.Identity(path)
	if !ok {
		return nil, false, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[full]
	if !ok {
		return nil, false, nil
	}
	return f, true, nil
}

// OpenFile probes path. A file that cannot be probed is returned with a
// failed status so callers observe the failure through Wait.
func (h *Host) OpenFile(ctx context.Context, path string, readOnly, asNew bool) (host.File, error) {
	if asNew {
		return nil, fmt.Errorf("rehearsal host cannot create %s", path)
	}
	full, ok := queue.Identity(path)
	if !ok {
		return nil, fmt.Errorf("invalid path %q", path)
	}

	f := &File{host: h, path: full, readOnly: readOnly, rate: h.defaultRate}
	result, err := h.probe(ctx, full)
	if err != nil {
		h.logger.Debug("probe failed", logging.ItemPath(full), logging.Error(err))
		f.pending = host.StatusFail
		return f, nil
	}
	f.rate = result.SampleRate(h.defaultRate)
	f.length = result.LengthSamples(h.defaultRate)

	h.mu.Lock()
	h.files[full] = f
	h.mu.Unlock()
	return f, nil
}

// OpenFiles returns the paths currently open, sorted.
func (h *Host) OpenFiles() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	paths := make([]string, 0, len(h.files))
	for path := range h.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

func (h *Host) release(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.files, path)
}

type effect struct {
	name    string
	presets []string
}

func (e *effect) Name() string { return e.name }

func (e *effect) PresetNames() []string { return slices.Clone(e.presets) }

// File is an open rehearsal document.
type File struct {
	host     *Host
	path     string
	readOnly bool
	rate     int
	length   int64

	mu      sync.Mutex
	pending host.Status
	tx      host.TransactionID
	label   string
	applied int
	saved   bool

	cancelled atomic.Bool
}

func (f *File) Path() string { return f.path }

func (f *File) Wait(ctx context.Context) (host.Status, error) {
	if err := ctx.Err(); err != nil {
		return host.StatusFail, err
	}
	if f.cancelled.Swap(false) {
		return host.StatusFail, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	status := f.pending
	f.pending = host.StatusSuccess
	return status, nil
}

func (f *File) Length() int64 { return f.length }

func (f *File) SecondsToSamplePosition(seconds float64) int64 {
	return int64(math.Round(seconds * float64(f.rate)))
}

func (f *File) BeginTransaction(_ context.Context, label string) (host.TransactionID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tx != "" {
		return "", fmt.Errorf("transaction %s already open on %s", f.tx, f.path)
	}
	f.tx = host.TransactionID(uuid.NewString())
	f.label = label
	return f.tx, nil
}

func (f *File) EndTransaction(ctx context.Context, id host.TransactionID, discard bool) error {
	f.mu.Lock()
	if f.tx != id {
		f.mu.Unlock()
		return fmt.Errorf("transaction %s is not open on %s", id, f.path)
	}
	f.tx = ""
	f.label = ""
	f.mu.Unlock()
	return f.resolve(ctx, id, !discard)
}

func (f *File) resolve(ctx context.Context, id host.TransactionID, committed bool) error {
	if f.host.journal == nil {
		return nil
	}
	changed, err := f.host.journal.ResolveEdits(ctx, string(id), committed)
	if err != nil {
		return err
	}
	f.host.logger.Debug("transaction resolved",
		logging.ItemPath(f.path),
		logging.String("transaction_id", string(id)),
		logging.Bool("committed", committed),
		logging.Int64("edits", changed),
	)
	return nil
}

// ApplyEffect journals the edit. A preset the effect does not declare or a
// range outside the file fails the operation.
func (f *File) ApplyEffect(ctx context.Context, e host.Effect, preset string, r host.Range, _ host.EffectOptions) error {
	if e == nil {
		return fmt.Errorf("apply effect on %s: nil effect", f.path)
	}
	f.mu.Lock()
	tx, label := f.tx, f.label
	if f.readOnly || !slices.Contains(e.PresetNames(), preset) || r.Start < 0 || r.Length < 0 || r.End() > f.length {
		f.pending = host.StatusFail
		f.mu.Unlock()
		return nil
	}
	f.applied++
	f.pending = host.StatusSuccess
	f.mu.Unlock()

	if f.host.journal == nil {
		return nil
	}
	_, err := f.host.journal.AppendEdit(ctx, queue.Edit{
		Path:          f.path,
		TransactionID: string(tx),
		Label:         label,
		Effect:        e.Name(),
		Preset:        preset,
		Start:         r.Start,
		Length:        r.Length,
	})
	return err
}

func (f *File) Save(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readOnly {
		f.pending = host.StatusFail
		return nil
	}
	f.saved = true
	f.pending = host.StatusSuccess
	return nil
}

// Close releases the file. An open transaction is discarded.
func (f *File) Close(ctx context.Context, _ bool) error {
	f.mu.Lock()
	tx := f.tx
	f.tx = ""
	f.mu.Unlock()
	f.host.release(f.path)
	if tx != "" {
		return f.resolve(ctx, tx, false)
	}
	return nil
}

// CancelCurrentOperation makes the next Wait report failure.
func (f *File) CancelCurrentOperation() {
	f.cancelled.Store(true)
}

// Applied returns how many effects were applied successfully.
func (f *File) Applied() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}

// Saved reports whether Save succeeded.
func (f *File) Saved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved
}
