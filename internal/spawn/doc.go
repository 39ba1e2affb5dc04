// Package spawn defines the internal data model for MediaSpawner
// configurations: media assets, spawn profiles, spawns, spawn assets,
// triggers, and randomization buckets.
//
// The package owns identity generation, deep copying, and the business-rule
// validation applied before a configuration is exported or after one is
// imported. The wire projection of these types lives in internal/wire.
package spawn
