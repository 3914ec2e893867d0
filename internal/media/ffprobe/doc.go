// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect executes ffprobe and returns a parsed Result. Helper methods on
// Result locate the first audio stream, parse durations, and convert a
// file's length into sample counts.
package ffprobe
