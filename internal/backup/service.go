package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"mediaspawner/internal/config"
	"mediaspawner/internal/export"
	"mediaspawner/internal/logging"
	"mediaspawner/internal/services"
	"mediaspawner/internal/store"
)

// SkipReason explains why a backup attempt ended without an upload.
type SkipReason string

const (
	// SkipNone means the payload was uploaded.
	SkipNone SkipReason = ""
	// SkipDisabled means backups are switched off in settings.
	SkipDisabled SkipReason = "disabled"
	// SkipNotAuthenticated means the endpoint rejected or lacks a token.
	SkipNotAuthenticated SkipReason = "not-authenticated"
	// SkipLocked means another process holds the shared backup lock.
	SkipLocked SkipReason = "locked"
	// SkipUnchanged means the payload hash matches the last upload.
	SkipUnchanged SkipReason = "unchanged"
)

// Outcome reports what a single backup attempt did.
type Outcome struct {
	Uploaded    bool
	Skipped     SkipReason
	ContentHash string
	At          time.Time
}

// Service runs the backup procedure: auth check, shared lock, export,
// hash compare, upload, status record, unlock.
type Service struct {
	cfg      *config.Config
	store    *store.Store
	exporter *export.Engine
	client   Client
	lock     *advisoryLock
	logger   *slog.Logger
}

// NewService wires a backup service over the given store and remote client.
func NewService(cfg *config.Config, st *store.Store, client Client, logger *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		exporter: export.NewEngine(st, logger),
		client:   client,
		lock:     newAdvisoryLock(cfg.BackupLockPath(), cfg.Backup.LockExpirySeconds),
		logger:   logging.NewComponentLogger(logger, "backup"),
	}
}

// RunManual performs a user-requested backup. Errors are returned to the
// caller and also persisted as the last attempt status.
func (s *Service) RunManual(ctx context.Context) (Outcome, error) {
	return s.run(ctx, true)
}

// RunAutomatic performs a scheduled backup. It never returns an error:
// failures are logged and persisted as the last attempt status only.
func (s *Service) RunAutomatic(ctx context.Context) Outcome {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		s.logger.Warn("read settings before backup", logging.Error(err))
		return Outcome{Skipped: SkipDisabled}
	}
	if !settings.Backup.Enabled || !settings.Backup.AutoBackup {
		return Outcome{Skipped: SkipDisabled}
	}

	outcome, err := s.run(ctx, false)
	if err != nil {
		s.logger.Warn("automatic backup failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "backup_failed"),
			logging.String(logging.FieldErrorHint, "check backup endpoint and token in the config file"),
		)
	}
	return outcome
}

// Status returns the persisted record of the last backup attempt.
func (s *Service) Status(ctx context.Context) (store.BackupState, error) {
	return s.store.BackupState(ctx)
}

// Revoke drops remote access for the configured token.
func (s *Service) Revoke(ctx context.Context) error {
	return s.client.Revoke(ctx)
}

func (s *Service) run(ctx context.Context, manual bool) (Outcome, error) {
	auth, err := s.client.AuthStatus(ctx)
	if err != nil {
		s.recordFailure(ctx, err)
		return Outcome{}, err
	}
	if !auth.Authenticated {
		if manual {
			err := services.Wrap(services.ErrNotAuthenticated, "backup", "auth",
				"authenticate with the backup endpoint first", nil)
			s.recordFailure(ctx, err)
			return Outcome{}, err
		}
		return Outcome{Skipped: SkipNotAuthenticated}, nil
	}

	acquired, err := s.lock.TryAcquire()
	if err != nil {
		s.recordFailure(ctx, err)
		return Outcome{}, err
	}
	if !acquired {
		s.logger.Debug("backup lock held elsewhere, skipping attempt")
		return Outcome{Skipped: SkipLocked}, nil
	}
	defer func() {
		if err := s.lock.Release(); err != nil {
			s.logger.Warn("release backup lock", logging.Error(err))
		}
	}()

	result, err := s.exporter.Export(ctx)
	if err != nil {
		s.recordFailure(ctx, err)
		return Outcome{}, err
	}

	hash := contentHash(result.Data)
	state, err := s.store.BackupState(ctx)
	if err != nil {
		s.recordFailure(ctx, err)
		return Outcome{}, err
	}
	if state.LastContentHash == hash {
		s.logger.Debug("payload unchanged since last upload", logging.String("hash", hash))
		return Outcome{Skipped: SkipUnchanged, ContentHash: hash}, nil
	}

	if err := s.client.Upload(ctx, []byte(result.Data)); err != nil {
		s.recordFailure(ctx, err)
		return Outcome{}, err
	}

	now := time.Now().UTC()
	if err := s.store.RecordBackupSuccess(ctx, now, hash); err != nil {
		return Outcome{}, err
	}
	s.logger.Info("backup uploaded",
		logging.String("hash", hash),
		logging.Int("profiles", result.Metadata.ProfileCount),
		logging.Int("assets", result.Metadata.AssetCount),
		logging.Bool("manual", manual),
	)
	return Outcome{Uploaded: true, ContentHash: hash, At: now}, nil
}

func (s *Service) recordFailure(ctx context.Context, cause error) {
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	if err := s.store.RecordBackupError(ctx, message); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("record backup failure", logging.Error(err))
	}
}

func contentHash(payload string) string {
	digest := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(digest[:])
}
