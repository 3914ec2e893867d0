package fadebatch

import "fmt"

// Phase is the driver's lifecycle position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseRunning
	PhaseCancelling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseRunning:
		return "running"
	case PhaseCancelling:
		return "cancelling"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the driver.
type State struct {
	Phase           Phase
	Running         bool
	CancelRequested bool
	Processed       int
	Total           int
}
