package backup

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// advisoryLock is a shared timestamp file coordinating backup attempts
// across processes. It is not atomic: two processes can race between the
// staleness check and the write. The expiry window bounds the damage of a
// crashed holder, and the occasional double upload is harmless because the
// payload is idempotent.
type advisoryLock struct {
	path   string
	expiry time.Duration
}

func newAdvisoryLock(path string, expirySeconds int) *advisoryLock {
	expiry := time.Duration(expirySeconds) * time.Second
	if expiry <= 0 {
		expiry = 2 * time.Minute
	}
	return &advisoryLock{path: path, expiry: expiry}
}

// TryAcquire claims the lock unless another holder wrote it within the
// expiry window. A stale or unparseable lock file is overwritten.
func (l *advisoryLock) TryAcquire() (bool, error) {
	if held, err := l.heldByOther(); err != nil {
		return false, err
	} else if held {
		return false, nil
	}

	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := os.WriteFile(l.path, []byte(stamp+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("write backup lock: %w", err)
	}
	return true, nil
}

// Release removes the lock file. Releasing an already-released lock is not
// an error.
func (l *advisoryLock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove backup lock: %w", err)
	}
	return nil
}

func (l *advisoryLock) heldByOther() (bool, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read backup lock: %w", err)
	}

	stamp, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		return false, nil
	}
	return time.Since(stamp) < l.expiry, nil
}
