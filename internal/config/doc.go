// Package config loads, normalizes, and validates MediaSpawner configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIASPAWNER_BACKUP_TOKEN. The Config type centralizes every knob the CLI
// and backup watcher need: the state directory holding the configuration
// database, log output, export destinations, and the remote backup endpoint.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
