package preflight

import (
	"context"

	"fadebatch/internal/config"
	"fadebatch/internal/host"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. The effect
// check is skipped when h is nil.
func RunAll(ctx context.Context, cfg *config.Config, h host.Host) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, depResult(status))
	}

	if h != nil {
		results = append(results, CheckEffect(ctx, h, cfg.Fade.EffectName))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
