// Package wire defines the versioned external schema for MediaSpawner
// configurations and the bidirectional mapping between it and the internal
// model.
//
// The wire format is the only artifact that crosses the system boundary,
// whether as an export file or a remote backup payload. It is a flattened,
// schema-locked projection: timestamps become ISO-8601 strings, nested
// dimension/position objects become flat width/height/x/y fields, and absent
// optional fields are omitted rather than emitted as null.
//
// Mapping functions never mutate identity; id and reference fields pass
// through unchanged in both directions.
package wire
