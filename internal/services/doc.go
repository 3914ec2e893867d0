// Package services defines shared utilities consumed by the batch driver,
// host adapters, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, item paths, and stage names
//     for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (configuration vs timeout vs host fault) stable across
//     package boundaries.
//
// Use these helpers when wiring new driver or adapter logic so operational
// behaviour (error handling, observability) stays uniform.
package services
