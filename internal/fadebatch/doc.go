// Package fadebatch drives a batch of queued media files through the host's
// fade effect.
//
// For each file the Driver opens (or reuses) the host document, wraps both
// effect applications in one undo transaction, commits or rolls it back, and
// saves and closes the file. Per-file failures, including host errors and
// panics, become queue outcomes so one bad file never aborts the batch.
// Cancellation is cooperative: it is observed between files, and the file
// in flight is asked to abort its current host operation.
package fadebatch
