package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediaspawner/internal/spawn"
)

// ErrProfileNotFound indicates the requested profile id does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// GetAllProfiles returns every spawn profile in stored order.
func (s *Store) GetAllProfiles(ctx context.Context) ([]spawn.SpawnProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, working_directory, spawns_json, last_modified, is_active
         FROM profiles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []spawn.SpawnProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// GetActiveProfile returns the active profile, or nil when none is active.
func (s *Store) GetActiveProfile(ctx context.Context) (*spawn.SpawnProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, working_directory, spawns_json, last_modified, is_active
         FROM profiles WHERE is_active = 1 LIMIT 1`)
	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// SetActiveProfile marks the given profile active and every other profile
// inactive, preserving the at-most-one-active invariant.
func (s *Store) SetActiveProfile(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activate tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE profiles SET is_active = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("activate profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("activate profile rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE profiles SET is_active = 0 WHERE id != ?", id); err != nil {
		return fmt.Errorf("deactivate others: %w", err)
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit activate: %w", err)
	}
	s.noteChange()
	return nil
}

// ReplaceProfiles replaces the full profile collection.
func (s *Store) ReplaceProfiles(ctx context.Context, profiles []spawn.SpawnProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profiles tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceProfilesTx(ctx, tx, profiles); err != nil {
		return err
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit profiles: %w", err)
	}
	s.noteChange()
	return nil
}

// ReplaceSnapshot swaps both collections inside one transaction so an import
// can never leave profiles referencing assets that were never persisted.
func (s *Store) ReplaceSnapshot(ctx context.Context, profiles []spawn.SpawnProfile, assets []spawn.MediaAsset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceAssetsTx(ctx, tx, assets); err != nil {
		return err
	}
	if err := replaceProfilesTx(ctx, tx, profiles); err != nil {
		return err
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	s.noteChange()
	return nil
}

func replaceProfilesTx(ctx context.Context, tx *sql.Tx, profiles []spawn.SpawnProfile) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
		return fmt.Errorf("clear profiles: %w", err)
	}
	activeSeen := false
	for position, profile := range profiles {
		spawnsJSON, err := json.Marshal(profile.Spawns)
		if err != nil {
			return fmt.Errorf("marshal spawns for profile %q: %w", profile.ID, err)
		}
		isActive := 0
		if profile.IsActive && !activeSeen {
			isActive = 1
			activeSeen = true
		}
		lastModified := profile.LastModified
		if lastModified.IsZero() {
			lastModified = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (id, name, description, working_directory, spawns_json, last_modified, is_active, position)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			profile.ID,
			profile.Name,
			nullableString(profile.Description),
			nullableString(profile.WorkingDirectory),
			string(spawnsJSON),
			lastModified.UTC().Format(time.RFC3339Nano),
			isActive,
			position,
		)
		if err != nil {
			return fmt.Errorf("insert profile %q: %w", profile.ID, err)
		}
	}
	return nil
}

func scanProfile(scanner interface{ Scan(dest ...any) error }) (*spawn.SpawnProfile, error) {
	var (
		profile      spawn.SpawnProfile
		description  sql.NullString
		workingDir   sql.NullString
		spawnsJSON   string
		lastModified string
		isActive     int
	)
	if err := scanner.Scan(
		&profile.ID,
		&profile.Name,
		&description,
		&workingDir,
		&spawnsJSON,
		&lastModified,
		&isActive,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	profile.Description = description.String
	profile.WorkingDirectory = workingDir.String
	profile.IsActive = isActive != 0

	if spawnsJSON != "" {
		if err := json.Unmarshal([]byte(spawnsJSON), &profile.Spawns); err != nil {
			return nil, fmt.Errorf("unmarshal spawns for profile %q: %w", profile.ID, err)
		}
	}
	if lastModified != "" {
		parsed, err := time.Parse(time.RFC3339Nano, lastModified)
		if err != nil {
			return nil, fmt.Errorf("parse last_modified for profile %q: %w", profile.ID, err)
		}
		profile.LastModified = parsed
	}
	return &profile, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
