// Package preflight verifies the environment before work that would
// otherwise fail halfway: directory access, free disk space, and backup
// endpoint reachability.
package preflight
