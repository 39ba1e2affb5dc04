package store

import (
	"context"
	"time"
)

// BackupStatus is the outcome of the most recent backup attempt.
type BackupStatus string

const (
	BackupStatusSuccess BackupStatus = "success"
	BackupStatusError   BackupStatus = "error"
)

// BackupState records the most recent backup attempt and the content hash of
// the last uploaded payload. The hash drives the redundant-upload skip.
type BackupState struct {
	LastBackupTime  time.Time
	LastStatus      BackupStatus
	LastError       string
	LastContentHash string
}

// BackupState reads the persisted backup status record.
func (s *Store) BackupState(ctx context.Context) (BackupState, error) {
	var state BackupState

	if raw, err := s.getKV(ctx, keyLastBackupTime); err != nil {
		return state, err
	} else if raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339Nano, raw)
		if parseErr == nil {
			state.LastBackupTime = parsed
		}
	}
	if raw, err := s.getKV(ctx, keyLastBackupStatus); err != nil {
		return state, err
	} else {
		state.LastStatus = BackupStatus(raw)
	}
	if raw, err := s.getKV(ctx, keyLastBackupError); err != nil {
		return state, err
	} else {
		state.LastError = raw
	}
	if raw, err := s.getKV(ctx, keyLastBackupHash); err != nil {
		return state, err
	} else {
		state.LastContentHash = raw
	}
	return state, nil
}

// RecordBackupSuccess stores a successful attempt: timestamp, status, and
// the uploaded payload's hash. Backup status writes deliberately do not bump
// the change sequence; a backup is not a configuration edit.
func (s *Store) RecordBackupSuccess(ctx context.Context, at time.Time, contentHash string) error {
	if err := s.setKV(ctx, keyLastBackupTime, at.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := s.setKV(ctx, keyLastBackupStatus, string(BackupStatusSuccess)); err != nil {
		return err
	}
	if err := s.setKV(ctx, keyLastBackupError, ""); err != nil {
		return err
	}
	return s.setKV(ctx, keyLastBackupHash, contentHash)
}

// RecordBackupError stores a failed attempt without touching the last
// successful time or hash.
func (s *Store) RecordBackupError(ctx context.Context, message string) error {
	if err := s.setKV(ctx, keyLastBackupStatus, string(BackupStatusError)); err != nil {
		return err
	}
	return s.setKV(ctx, keyLastBackupError, message)
}
