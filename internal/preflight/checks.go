package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"fadebatch/internal/config"
	"fadebatch/internal/deps"
	"fadebatch/internal/host"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries the configured host needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.Host.FFprobeBinary,
			Description: "Required to measure media length",
		},
	})
}

// CheckEffect verifies that the host exposes the named effect with at least
// one preset.
func CheckEffect(ctx context.Context, h host.Host, name string) Result {
	const label = "Fade effect"

	name = strings.TrimSpace(name)
	if name == "" {
		return Result{Name: label, Detail: "effect name not configured"}
	}
	effect, ok, err := h.FindEffect(ctx, name)
	if err != nil {
		return Result{Name: label, Detail: fmt.Sprintf("%s (error: %v)", name, err)}
	}
	if !ok {
		return Result{Name: label, Detail: fmt.Sprintf("%s (error: not found)", name)}
	}
	count := len(effect.PresetNames())
	if count == 0 {
		return Result{Name: label, Detail: fmt.Sprintf("%s (error: no presets)", name)}
	}
	return Result{Name: label, Passed: true, Detail: fmt.Sprintf("%s (%d presets)", name, count)}
}

func depResult(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available || status.Optional}
	switch {
	case status.Available:
		result.Detail = status.Resolved
	case status.Optional:
		result.Detail = status.Detail + " (optional)"
	default:
		result.Detail = status.Detail
	}
	return result
}
