package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackup()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = ExpandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackup() {
	c.Backup.Endpoint = strings.TrimRight(strings.TrimSpace(c.Backup.Endpoint), "/")
	c.Backup.Token = strings.TrimSpace(c.Backup.Token)
	if c.Backup.Token == "" {
		if env, ok := os.LookupEnv("MEDIASPAWNER_BACKUP_TOKEN"); ok {
			c.Backup.Token = strings.TrimSpace(env)
		}
	}
	if c.Backup.RequestTimeout <= 0 {
		c.Backup.RequestTimeout = defaultBackupRequestTimeout
	}
	if c.Backup.LockExpirySeconds <= 0 {
		c.Backup.LockExpirySeconds = defaultBackupLockExpirySeconds
	}
	if c.Backup.DebounceSeconds <= 0 {
		c.Backup.DebounceSeconds = defaultBackupDebounceSeconds
	}
	if c.Backup.CheckInterval <= 0 {
		c.Backup.CheckInterval = defaultBackupCheckInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
