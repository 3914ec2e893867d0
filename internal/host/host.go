package host

import (
	"context"
	"fmt"
)

// Status is the terminal state of the most recent asynchronous host operation.
type Status int

const (
	StatusSuccess Status = iota
	StatusFail
	StatusNotAvailable
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFail:
		return "fail"
	case StatusNotAvailable:
		return "not_available"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TransactionID identifies an open undo transaction on a file.
type TransactionID string

// Range is a half-open sample range [Start, Start+Length).
type Range struct {
	Start  int64
	Length int64
}

// End returns the first sample after the range.
func (r Range) End() int64 { return r.Start + r.Length }

// EffectOptions controls how an effect is applied.
type EffectOptions uint8

const (
	// EffectOnly applies the effect without showing any host dialog.
	EffectOnly EffectOptions = 1 << iota
)

// Has reports whether all bits of flag are set.
func (o EffectOptions) Has(flag EffectOptions) bool { return o&flag == flag }

// Effect is a named effect exposed by the host.
type Effect interface {
	Name() string
	// PresetNames lists the effect's presets in host order.
	PresetNames() []string
}

// File is an open media document inside the host.
//
// ApplyEffect, Save, and opening are asynchronous; their result is observed
// through Wait.
type File interface {
	Path() string
	Wait(ctx context.Context) (Status, error)
	Length() int64
	SecondsToSamplePosition(seconds float64) int64
	BeginTransaction(ctx context.Context, label string) (TransactionID, error)
	EndTransaction(ctx context.Context, id TransactionID, discard bool) error
	ApplyEffect(ctx context.Context, effect Effect, preset string, r Range, opts EffectOptions) error
	Save(ctx context.Context) error
	Close(ctx context.Context, saveChanges bool) error
	// CancelCurrentOperation asks the host to abort the in-flight operation.
	// It returns immediately and never blocks.
	CancelCurrentOperation()
}

// Host is the media-editing application.
type Host interface {
	FindEffect(ctx context.Context, name string) (Effect, bool, error)
	FindOpenFile(ctx context.Context, path string) (File, bool, error)
	OpenFile(ctx context.Context, path string, readOnly, asNew bool) (File, error)
}
