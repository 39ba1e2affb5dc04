package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"mediaspawner/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// MinExportSpace is the free space required in the export directory. An
// export is small, but a full filesystem also breaks the SQLite WAL, so the
// floor is deliberately generous.
const MinExportSpace = 16 << 20

// RunAll executes every applicable check for the given config. The backup
// endpoint check runs only when an endpoint is configured; authProbe is the
// credential check to use for it (typically the backup client's AuthStatus).
func RunAll(ctx context.Context, cfg *config.Config, authProbe func(context.Context) error) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir),
		CheckFreeSpace("Export directory space", cfg.Paths.ExportDir, MinExportSpace),
	}

	if strings.TrimSpace(cfg.Backup.Endpoint) != "" && authProbe != nil {
		results = append(results, CheckBackupEndpoint(ctx, authProbe))
	}

	return results
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable, writable, and traversable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("not accessible: %v", err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: "not a directory"}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("permission denied: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "read/write ok"}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs failed: %v", err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if available < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("only %d MiB free", available>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", available>>20)}
}

// CheckBackupEndpoint verifies the backup endpoint accepts our credentials.
func CheckBackupEndpoint(ctx context.Context, authProbe func(context.Context) error) Result {
	const name = "Backup endpoint"
	if err := authProbe(ctx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "authenticated"}
}

// EnsureSpace is the write-path variant of CheckFreeSpace: it returns an
// error instead of a report so callers can abort before producing output.
func EnsureSpace(path string, minBytes uint64) error {
	result := CheckFreeSpace("space", path, minBytes)
	if !result.Passed {
		return fmt.Errorf("insufficient space in %q: %s", path, result.Detail)
	}
	return nil
}
