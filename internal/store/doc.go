// Package store manages MediaSpawner persistence backed by SQLite: the
// asset collection, spawn profiles, mutable application settings, and the
// backup status record.
//
// Profiles and assets are replaced wholesale rather than row-patched; the
// import engine relies on ReplaceSnapshot to swap both collections inside a
// single transaction. Settings reads go through an invalidate-on-write cache
// scoped to the Store instance, so tests get isolated caches for free. Every
// mutating call bumps a persisted change sequence that the backup watcher
// polls to detect edits made from other processes.
package store
