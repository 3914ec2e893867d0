// Package preflight provides readiness checks for the filesystem paths,
// external binaries, and host effect fadebatch depends on.
//
// These checks run in two contexts:
//   - "fadebatch run" calls RunAll before starting the driver and refuses to
//     start when a check fails.
//   - "fadebatch check" prints every result so operators can fix their setup.
package preflight
