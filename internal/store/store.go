package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"mediaspawner/internal/config"
)

// Store manages configuration persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string

	settings settingsCache

	mu        sync.Mutex
	listeners []func()
}

// Open initializes or connects to the configuration database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens a database at an explicit location. Tests use this to avoid
// constructing a full config.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// OnChange registers a callback invoked after every successful mutation in
// this process. Callbacks run synchronously on the mutating goroutine and
// must not block.
func (s *Store) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// ChangeSeq returns the persisted change sequence. Other processes observe
// mutations by polling this value.
func (s *Store) ChangeSeq(ctx context.Context) (int64, error) {
	value, err := s.getKV(ctx, keyChangeSeq)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return 0, nil
	}
	var seq int64
	if _, err := fmt.Sscanf(value, "%d", &seq); err != nil {
		return 0, fmt.Errorf("parse change seq %q: %w", value, err)
	}
	return seq, nil
}

func (s *Store) noteChange() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func bumpChangeSeq(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, '1')
         ON CONFLICT(key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)`,
		keyChangeSeq,
	)
	if err != nil {
		return fmt.Errorf("bump change seq: %w", err)
	}
	return nil
}

func (s *Store) getKV(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read kv %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) setKV(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write kv %q: %w", key, err)
	}
	return nil
}

func setKVTx(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write kv %q: %w", key, err)
	}
	return nil
}

const (
	keyChangeSeq        = "change_seq"
	keySettings         = "settings"
	keyLastBackupHash   = "last_backup_hash"
	keyLastBackupTime   = "last_backup_time"
	keyLastBackupStatus = "last_backup_status"
	keyLastBackupError  = "last_backup_error"
)
