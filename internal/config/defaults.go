package config

const (
	defaultStateDir  = "~/.local/share/mediaspawner"
	defaultLogDir    = "~/.local/share/mediaspawner/logs"
	defaultExportDir = "~/.local/share/mediaspawner/exports"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultBackupRequestTimeout = 10
	// Bounds the damage of a process crashing while holding the backup lock.
	defaultBackupLockExpirySeconds = 120
	defaultBackupDebounceSeconds   = 5
	defaultBackupCheckInterval     = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Backup: Backup{
			RequestTimeout:    defaultBackupRequestTimeout,
			LockExpirySeconds: defaultBackupLockExpirySeconds,
			DebounceSeconds:   defaultBackupDebounceSeconds,
			CheckInterval:     defaultBackupCheckInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
