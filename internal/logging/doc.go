// Package logging assembles the structured slog loggers used across
// MediaSpawner components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute helpers so engine code tags log
// lines consistently (component, event_type, error_hint). A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
