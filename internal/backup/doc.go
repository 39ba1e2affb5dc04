// Package backup pushes exported configurations to a remote endpoint.
//
// The automatic path is best effort: it never surfaces errors, only persists
// the attempt outcome in the store. Manual backups report errors to the
// caller. Both paths skip the upload when the exported payload's hash matches
// the last uploaded one, and both honor the shared advisory lock that keeps
// concurrent processes from backing up at the same time.
package backup
