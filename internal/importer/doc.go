// Package importer orchestrates configuration import: parse the wire
// format, validate it structurally and against business rules, reconcile it
// with the current store contents under configurable conflict strategies,
// and persist the merged result as one snapshot.
//
// Merging resolves id collisions asset-first, because profiles reference
// assets: every asset id remapping feeds the reference rewriting applied to
// incoming profiles. The default strategy is rename: a single import can
// never silently destroy data, at the cost of possible duplicates the
// caller must surface for human reconciliation.
package importer
