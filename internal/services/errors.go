package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures. Callers test them with errors.Is.
var (
	// ErrExternalTool marks failures of binaries fadebatch shells out to.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks problems that block a run before any file is touched.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing effect, run, or other named resource.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks a host operation that did not answer in time.
	ErrTimeout = errors.New("timeout")
	// ErrHostFault marks an error or panic raised by the host.
	ErrHostFault = errors.New("host fault")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrHostFault
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsConfiguration reports whether err blocks a run before any file is touched.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrNotFound)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
