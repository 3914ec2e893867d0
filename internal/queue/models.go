package queue

import (
	"fmt"
	"path/filepath"
	"time"
)

// OutcomeKind classifies what happened to an item during the last run.
type OutcomeKind string

const (
	OutcomeNone                  OutcomeKind = ""
	OutcomeSuccess               OutcomeKind = "success"
	OutcomeSkippedWrongExtension OutcomeKind = "skipped_wrong_extension"
	OutcomeOpenFailed            OutcomeKind = "open_failed"
	OutcomeFadeInTooLong         OutcomeKind = "fade_in_too_long"
	OutcomeFadeOutTooLong        OutcomeKind = "fade_out_too_long"
	OutcomeEffectFailed          OutcomeKind = "effect_failed"
	OutcomeHostException         OutcomeKind = "host_exception"
)

// Outcome is the recorded result for one item. Code carries the host status
// for EffectFailed; Message is the user-facing annotation.
type Outcome struct {
	Kind    OutcomeKind
	Code    string
	Message string
}

func Succeeded() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

func SkippedWrongExtension(ext string) Outcome {
	return Outcome{Kind: OutcomeSkippedWrongExtension, Message: fmt.Sprintf("extension %q is not allowed", ext)}
}

func OpenFailed(fileName string) Outcome {
	return Outcome{Kind: OutcomeOpenFailed, Message: fmt.Sprintf("%s can not be opened.", fileName)}
}

func FadeInTooLong(position, length int64) Outcome {
	return Outcome{
		Kind:    OutcomeFadeInTooLong,
		Message: fmt.Sprintf("The fade in time(%d) is longer than total time(%d).", position, length),
	}
}

func FadeOutTooLong(position, length int64) Outcome {
	return Outcome{
		Kind:    OutcomeFadeOutTooLong,
		Message: fmt.Sprintf("The fade out time(%d) is longer than total time(%d).", position, length),
	}
}

func EffectFailed(code string) Outcome {
	return Outcome{Kind: OutcomeEffectFailed, Code: code, Message: fmt.Sprintf("error code(%s).", code)}
}

func HostException(message string) Outcome {
	return Outcome{Kind: OutcomeHostException, Message: message}
}

// IsZero reports whether no outcome has been recorded.
func (o Outcome) IsZero() bool { return o.Kind == OutcomeNone }

// Failed reports whether the outcome is anything other than success or unset.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeNone && o.Kind != OutcomeSuccess
}

func (o Outcome) String() string {
	switch {
	case o.Kind == OutcomeNone:
		return ""
	case o.Message != "":
		return o.Message
	default:
		return string(o.Kind)
	}
}

// Item is one queued media file.
type Item struct {
	ID        int64
	FileName  string
	Directory string
	LastError string
	Outcome   Outcome
	CreatedAt time.Time
}

// Path returns the item's full path, which is also its identity.
func (i Item) Path() string {
	return filepath.Join(i.Directory, i.FileName)
}

func (i *Item) setOutcome(o Outcome) {
	i.Outcome = o
	if o.Failed() {
		i.LastError = o.Message
	} else {
		i.LastError = ""
	}
}

// Run is a persisted summary of one batch run.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Cancelled      bool
	Total          int
	Processed      int
	FadeInPreset   string
	FadeOutPreset  string
	FadeInSeconds  float64
	FadeOutSeconds float64
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunResult is the outcome of one item within a run.
type RunResult struct {
	Position int
	Path     string
	Outcome  Outcome
}

// EditState tracks whether a journaled edit survived its transaction.
type EditState string

const (
	EditPending   EditState = "pending"
	EditCommitted EditState = "committed"
	EditDiscarded EditState = "discarded"
)

// Edit is one journaled effect application.
type Edit struct {
	ID            int64
	Path          string
	TransactionID string
	Label         string
	Effect        string
	Preset        string
	Start         int64
	Length        int64
	State         EditState
	CreatedAt     time.Time
	ResolvedAt    time.Time
}
