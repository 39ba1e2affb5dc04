// Package export orchestrates configuration export: read the full internal
// state, project it through the wire transformer, validate the projection,
// and serialize it with stable, human-readable formatting.
//
// Exports are all-or-nothing. Validation aggregates every offending item
// into one error instead of silently dropping invalid entries, and the
// serialized text is parsed back before it is handed out so a formatting
// regression can never ship a corrupt artifact.
package export
