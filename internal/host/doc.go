// Package host declares the capability surface fadebatch needs from a
// media-editing host: effect lookup, file open and save, undo transactions,
// and asynchronous effect application.
//
// Implementations live elsewhere. The hosttest subpackage provides a scripted
// fake for tests and the rehearsal subpackage provides an ffprobe-backed host
// that journals edits without touching media.
package host
