package fadebatch

import (
	"errors"
	"fmt"

	"fadebatch/internal/services"
)

var (
	// ErrRunInProgress is returned by Run while another run is active.
	ErrRunInProgress = errors.New("batch run already in progress")
	// ErrFadeInPresetMissing blocks a run when no usable fade-in preset is selected.
	ErrFadeInPresetMissing = fmt.Errorf("fade in preset missing: %w", services.ErrConfiguration)
	// ErrFadeOutPresetMissing blocks a run when no usable fade-out preset is selected.
	ErrFadeOutPresetMissing = fmt.Errorf("fade out preset missing: %w", services.ErrConfiguration)
	// ErrInvalidFadeTime blocks a run when a fade length is negative or not a number.
	ErrInvalidFadeTime = fmt.Errorf("invalid fade time: %w", services.ErrConfiguration)

	errNilHandle = errors.New("host returned no file handle")
)
