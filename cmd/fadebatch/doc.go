// Command fadebatch manages the media queue and applies fade-in/fade-out
// presets to every queued file in one undoable pass per file.
//
// State lives in a SQLite database under the configured state directory, so
// the queue, per-file outcomes, and run history survive between invocations.
// Runs go through the rehearsal host, which measures files with ffprobe and
// journals every edit instead of rewriting media.
package main
