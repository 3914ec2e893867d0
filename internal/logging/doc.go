// Package logging assembles structured slog loggers and formatting helpers used
// across fadebatch.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so driver code can automatically tag log
// lines with run IDs, item paths, and per-item stages. The package also
// provides a no-op logger for tests and wiring code that cannot fail, plus a
// sampler that keeps batch progress lines to a readable cadence.
package logging
