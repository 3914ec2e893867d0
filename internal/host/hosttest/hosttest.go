// Package hosttest provides a scripted in-memory host for driver tests.
package hosttest

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fadebatch/internal/host"
)

// Operation names recorded in a file's call log.
const (
	OpOpen  = "open"
	OpWait  = "wait"
	OpBegin = "begin"
	OpApply = "apply"
	OpEnd   = "end"
	OpSave  = "save"
	OpClose = "close"
)

const defaultSampleRate = 48000

// Call is one recorded host invocation.
type Call struct {
	Op          string
	Label       string
	Preset      string
	Range       host.Range
	Options     host.EffectOptions
	Discard     bool
	SaveChanges bool
}

// Host is a fake host.Host. The zero value is not usable; call New.
type Host struct {
	mu      sync.Mutex
	effects map[string]*Effect
	files   map[string]*File
	opened  []string

	// FindEffectErr, when set, is returned by FindEffect.
	FindEffectErr error
}

// New returns an empty fake host.
func New() *Host {
	return &Host{
		effects: make(map[string]*Effect),
		files:   make(map[string]*File),
	}
}

// AddEffect registers an effect with presets in host order.
func (h *Host) AddEffect(name string, presets ...string) *Effect {
	h.mu.Lock()
	defer h.mu.Unlock()
	effect := &Effect{name: name, presets: append([]string(nil), presets...)}
	h.effects[strings.ToLower(name)] = effect
	return effect
}

// AddFile registers a file of the given duration that OpenFile will return.
func (h *Host) AddFile(path string, seconds float64, opts ...FileOption) *File {
	f := &File{
		path:       filepath.Clean(path),
		sampleRate: defaultSampleRate,
		seconds:    seconds,
		openStatus: host.StatusSuccess,
		saveStatus: host.StatusSuccess,
		errs:       make(map[string]error),
		cancelled:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[f.path] = f
	return f
}

// Opened lists paths passed to OpenFile, in call order.
func (h *Host) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

// File returns the registered file for path.
func (h *Host) File(path string) *File {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.files[filepath.Clean(path)]
}

func (h *Host) FindEffect(_ context.Context, name string) (host.Effect, bool, error) {
	if h.FindEffectErr != nil {
		return nil, false, h.FindEffectErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	effect, ok := h.effects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false, nil
	}
	return effect, true, nil
}

func (h *Host) FindOpenFile(_ context.Context, path string) (host.File, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[filepath.Clean(path)]
	if !ok || !f.alreadyOpen {
		return nil, false, nil
	}
	return f, true, nil
}

func (h *Host) OpenFile(_ context.Context, path string, readOnly, asNew bool) (host.File, error) {
	h.mu.Lock()
	h.opened = append(h.opened, path)
	f, ok := h.files[filepath.Clean(path)]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s can not be opened", path)
	}
	if readOnly || asNew {
		return nil, fmt.Errorf("unexpected open mode readOnly=%t asNew=%t", readOnly, asNew)
	}
	if err := f.fault(OpOpen); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: OpOpen})
	f.pending = f.openStatus
	if f.nilHandle {
		return nil, nil
	}
	return f, nil
}

// Effect is a fake host.Effect.
type Effect struct {
	name    string
	presets []string
}

func (e *Effect) Name() string { return e.name }

func (e *Effect) PresetNames() []string { return append([]string(nil), e.presets...) }

// FileOption customizes a fake file.
type FileOption func(*File)

// WithSampleRate overrides the default 48 kHz sample rate.
func WithSampleRate(rate int) FileOption {
	return func(f *File) { f.sampleRate = rate }
}

// WithOpenStatus sets the status Wait reports after the file is opened.
func WithOpenStatus(status host.Status) FileOption {
	return func(f *File) { f.openStatus = status }
}

// WithSaveStatus sets the status Wait reports after Save.
func WithSaveStatus(status host.Status) FileOption {
	return func(f *File) { f.saveStatus = status }
}

// WithEffectStatuses scripts the status Wait reports after each ApplyEffect,
// in order. Unscripted applications succeed.
func WithEffectStatuses(statuses ...host.Status) FileOption {
	return func(f *File) { f.effectStatuses = append([]host.Status(nil), statuses...) }
}

// WithError makes the named operation return err.
func WithError(op string, err error) FileOption {
	return func(f *File) { f.errs[op] = err }
}

// WithPanic makes the named operation panic.
func WithPanic(op string) FileOption {
	return func(f *File) { f.panicOp = op }
}

// WithAlreadyOpen makes FindOpenFile return the file.
func WithAlreadyOpen() FileOption {
	return func(f *File) { f.alreadyOpen = true }
}

// WithNilHandle makes OpenFile return a nil file and nil error.
func WithNilHandle() FileOption {
	return func(f *File) { f.nilHandle = true }
}

// WithHangingEffect makes Wait after an effect block until the context ends
// or the operation is cancelled.
func WithHangingEffect() FileOption {
	return func(f *File) { f.hangOnEffect = true }
}

// WithApplyHook runs fn after each ApplyEffect is recorded.
func WithApplyHook(fn func(preset string)) FileOption {
	return func(f *File) { f.applyHook = fn }
}

// File is a fake host.File.
type File struct {
	mu sync.Mutex

	path           string
	sampleRate     int
	seconds        float64
	openStatus     host.Status
	saveStatus     host.Status
	effectStatuses []host.Status
	errs           map[string]error
	panicOp        string
	alreadyOpen    bool
	nilHandle      bool
	hangOnEffect   bool
	applyHook      func(preset string)

	calls       []Call
	pending     host.Status
	lastOp      string
	effectIndex int
	txCounter   int
	cancelCount int
	cancelled   chan struct{}
	closeOnce   sync.Once
}

func (f *File) fault(op string) error {
	if f.panicOp == op {
		panic(fmt.Sprintf("host fault during %s", op))
	}
	return f.errs[op]
}

func (f *File) record(call Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.lastOp = call.Op
}

func (f *File) Path() string { return f.path }

func (f *File) Wait(ctx context.Context) (host.Status, error) {
	if err := f.fault(OpWait); err != nil {
		return host.StatusFail, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, Call{Op: OpWait})
	hang := f.hangOnEffect && f.lastOp == OpApply
	status := f.pending
	f.pending = host.StatusSuccess
	f.mu.Unlock()

	if hang {
		select {
		case <-ctx.Done():
			return host.StatusFail, ctx.Err()
		case <-f.cancelled:
			return host.StatusFail, nil
		}
	}
	return status, nil
}

func (f *File) Length() int64 {
	return int64(math.Round(f.seconds * float64(f.sampleRate)))
}

func (f *File) SecondsToSamplePosition(seconds float64) int64 {
	return int64(math.Round(seconds * float64(f.sampleRate)))
}

func (f *File) BeginTransaction(_ context.Context, label string) (host.TransactionID, error) {
	if err := f.fault(OpBegin); err != nil {
		return "", err
	}
	f.record(Call{Op: OpBegin, Label: label})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCounter++
	return host.TransactionID(fmt.Sprintf("tx-%d", f.txCounter)), nil
}

func (f *File) EndTransaction(_ context.Context, _ host.TransactionID, discard bool) error {
	if err := f.fault(OpEnd); err != nil {
		return err
	}
	f.record(Call{Op: OpEnd, Discard: discard})
	return nil
}

func (f *File) ApplyEffect(_ context.Context, _ host.Effect, preset string, r host.Range, opts host.EffectOptions) error {
	if err := f.fault(OpApply); err != nil {
		return err
	}
	f.record(Call{Op: OpApply, Preset: preset, Range: r, Options: opts})
	f.mu.Lock()
	status := host.StatusSuccess
	if f.effectIndex < len(f.effectStatuses) {
		status = f.effectStatuses[f.effectIndex]
	}
	f.effectIndex++
	f.pending = status
	hook := f.applyHook
	f.mu.Unlock()
	if hook != nil {
		hook(preset)
	}
	return nil
}

func (f *File) Save(context.Context) error {
	if err := f.fault(OpSave); err != nil {
		return err
	}
	f.record(Call{Op: OpSave})
	f.mu.Lock()
	f.pending = f.saveStatus
	f.mu.Unlock()
	return nil
}

func (f *File) Close(_ context.Context, saveChanges bool) error {
	if err := f.fault(OpClose); err != nil {
		return err
	}
	f.record(Call{Op: OpClose, SaveChanges: saveChanges})
	return nil
}

func (f *File) CancelCurrentOperation() {
	f.mu.Lock()
	f.cancelCount++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.cancelled) })
}

// Calls returns the recorded call log.
func (f *File) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsOf returns recorded calls of one operation.
func (f *File) CallsOf(op string) []Call {
	var out []Call
	for _, call := range f.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// Ops returns the operation names in call order, skipping waits.
func (f *File) Ops() []string {
	var ops []string
	for _, call := range f.Calls() {
		if call.Op == OpWait {
			continue
		}
		ops = append(ops, call.Op)
	}
	return ops
}

// CancelCount reports how many times CancelCurrentOperation was called.
func (f *File) CancelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelCount
}

// SortedPaths returns the registered file paths in lexical order.
func (h *Host) SortedPaths() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	paths := make([]string, 0, len(h.files))
	for path := range h.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
