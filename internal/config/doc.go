// Package config loads, normalizes, and validates fadebatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FADEBATCH_STATE_DIR environment
// override. The Config type centralizes every knob the driver and CLI need:
// fade presets and durations, the extension allow-list, rehearsal host
// effects, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors. The
// configuration file is read-only input; nothing in fadebatch writes it back
// except `config init`, which copies the embedded sample.
package config
