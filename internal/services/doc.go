// Package services defines the shared error taxonomy for the export, import,
// and backup engines.
//
// Structured error markers plus the Wrap helper tag failures so callers can
// classify them with errors.Is without parsing messages: user mistakes
// (empty dataset, malformed input) stay distinguishable from internal bugs
// (serialization drift) and from remote-side failures (auth, upload).
//
// Use these markers when wiring new engine logic so error handling stays
// uniform across the subsystem boundary.
package services
