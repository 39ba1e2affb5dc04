package testsupport

import (
	"path/filepath"
	"testing"

	"mediaspawner/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Backup.LockExpirySeconds = 120
	cfg.Backup.DebounceSeconds = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackupEndpoint points the config at a backup endpoint, typically an
// httptest server URL.
func WithBackupEndpoint(endpoint, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Backup.Endpoint = endpoint
		cfg.Backup.Token = token
	}
}

// WithLockExpiry overrides the advisory-lock expiry window in seconds.
func WithLockExpiry(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Backup.LockExpirySeconds = seconds
	}
}
