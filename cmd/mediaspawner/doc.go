// Command mediaspawner manages spawn configurations: export, import,
// profile and asset inspection, and remote backups.
package main
