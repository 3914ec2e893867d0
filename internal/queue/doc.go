// Package queue holds the ordered, duplicate-free set of media files a batch
// run will process, and persists it in SQLite.
//
// A Queue filters additions through an extension allow-list and identifies
// items by their absolute, cleaned path. The Store keeps the queue between
// invocations together with per-run history and the rehearsal edit journal.
//
// The database is local state, not an archive. Schema changes bump the
// version in schema.go; users delete the database to adopt the new schema.
package queue
