package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// BackupFrequency selects when automatic backups run.
type BackupFrequency string

const (
	BackupDaily    BackupFrequency = "daily"
	BackupWeekly   BackupFrequency = "weekly"
	BackupOnChange BackupFrequency = "on-change"
)

// BackupSettings are the runtime backup toggles. Connection details live in
// the config file; these change through the CLI without a reload.
type BackupSettings struct {
	Enabled    bool            `json:"enabled"`
	AutoBackup bool            `json:"autoBackup"`
	Frequency  BackupFrequency `json:"frequency"`
}

// CanvasSize is the display canvas in pixels.
type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Settings holds the mutable application settings.
type Settings struct {
	WorkingDirectory string         `json:"workingDirectory"`
	Theme            string         `json:"theme"`
	Canvas           CanvasSize     `json:"canvas"`
	Backup           BackupSettings `json:"backup"`
}

// DefaultSettings returns the settings used before any update is persisted.
func DefaultSettings() Settings {
	return Settings{
		Theme:  "system",
		Canvas: CanvasSize{Width: 1920, Height: 1080},
		Backup: BackupSettings{
			Enabled:    false,
			AutoBackup: false,
			Frequency:  BackupOnChange,
		},
	}
}

// SettingsPatch describes a partial settings update; nil fields are left
// untouched.
type SettingsPatch struct {
	WorkingDirectory *string
	Theme            *string
	Canvas           *CanvasSize
	BackupEnabled    *bool
	AutoBackup       *bool
	Frequency        *BackupFrequency
}

// settingsCache is an invalidate-on-write cache scoped to one Store, so
// isolated stores in tests never observe each other's settings.
type settingsCache struct {
	mu     sync.Mutex
	loaded bool
	value  Settings
}

func (c *settingsCache) get() (Settings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.loaded
}

func (c *settingsCache) put(value Settings) {
	c.mu.Lock()
	c.value = value
	c.loaded = true
	c.mu.Unlock()
}

func (c *settingsCache) invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

// GetSettings returns the current settings, served from cache when warm.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	if cached, ok := s.settings.get(); ok {
		return cached, nil
	}

	raw, err := s.getKV(ctx, keySettings)
	if err != nil {
		return Settings{}, err
	}
	settings := DefaultSettings()
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
		}
	}
	s.settings.put(settings)
	return settings, nil
}

// UpdateSettings applies a partial update, validates the result, persists
// it, and invalidates the cache.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return Settings{}, err
	}

	if patch.WorkingDirectory != nil {
		current.WorkingDirectory = strings.TrimSpace(*patch.WorkingDirectory)
	}
	if patch.Theme != nil {
		current.Theme = strings.ToLower(strings.TrimSpace(*patch.Theme))
	}
	if patch.Canvas != nil {
		current.Canvas = *patch.Canvas
	}
	if patch.BackupEnabled != nil {
		current.Backup.Enabled = *patch.BackupEnabled
	}
	if patch.AutoBackup != nil {
		current.Backup.AutoBackup = *patch.AutoBackup
	}
	if patch.Frequency != nil {
		current.Backup.Frequency = *patch.Frequency
	}

	if err := validateSettings(current); err != nil {
		return Settings{}, err
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return Settings{}, fmt.Errorf("marshal settings: %w", err)
	}

	s.settings.invalidate()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Settings{}, fmt.Errorf("begin settings tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := setKVTx(ctx, tx, keySettings, string(raw)); err != nil {
		return Settings{}, err
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return Settings{}, err
	}
	if err := tx.Commit(); err != nil {
		return Settings{}, fmt.Errorf("commit settings: %w", err)
	}
	s.settings.put(current)
	s.noteChange()
	return current, nil
}

// UpdateWorkingDirectory is a convenience wrapper used by the import engine.
func (s *Store) UpdateWorkingDirectory(ctx context.Context, path string) (Settings, error) {
	return s.UpdateSettings(ctx, SettingsPatch{WorkingDirectory: &path})
}

func validateSettings(settings Settings) error {
	switch settings.Theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("theme must be light, dark, or system, got %q", settings.Theme)
	}
	if settings.Canvas.Width <= 0 || settings.Canvas.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d",
			settings.Canvas.Width, settings.Canvas.Height)
	}
	switch settings.Backup.Frequency {
	case BackupDaily, BackupWeekly, BackupOnChange:
	default:
		return fmt.Errorf("backup frequency must be daily, weekly, or on-change, got %q", settings.Backup.Frequency)
	}
	return nil
}
