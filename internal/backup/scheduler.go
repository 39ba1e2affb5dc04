package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"mediaspawner/internal/config"
	"mediaspawner/internal/logging"
	"mediaspawner/internal/store"
)

// Scheduler drives automatic backups. Daily and weekly frequencies run on a
// fixed ticker; on-change waits for a quiet period after the last store
// mutation. Mutations from other processes are picked up by polling the
// store's change sequence.
type Scheduler struct {
	cfg     *config.Config
	store   *store.Store
	service *Service
	logger  *slog.Logger
}

// NewScheduler builds a scheduler around an existing backup service.
func NewScheduler(cfg *config.Config, st *store.Store, service *Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		store:   st,
		service: service,
		logger:  logging.NewComponentLogger(logger, "backup"),
	}
}

// Run blocks until the context is canceled, firing automatic backups per
// the persisted frequency setting. A flock guard ensures only one watcher
// runs per state directory.
func (s *Scheduler) Run(ctx context.Context) error {
	guard := flock.New(s.cfg.WatcherLockPath())
	locked, err := guard.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watcher lock: %w", err)
	}
	if !locked {
		return errors.New("another backup watcher is already running for this state directory")
	}
	defer func() {
		if err := guard.Unlock(); err != nil {
			s.logger.Warn("release watcher lock", logging.Error(err))
		}
	}()

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	s.logger.Info("backup watcher started",
		logging.String("frequency", string(settings.Backup.Frequency)),
		logging.String("lock", s.cfg.WatcherLockPath()),
	)

	switch settings.Backup.Frequency {
	case store.BackupDaily:
		return s.runInterval(ctx, 24*time.Hour)
	case store.BackupWeekly:
		return s.runInterval(ctx, 7*24*time.Hour)
	case store.BackupOnChange:
		return s.runOnChange(ctx)
	default:
		return fmt.Errorf("unknown backup frequency %q", settings.Backup.Frequency)
	}
}

func (s *Scheduler) runInterval(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("backup watcher stopping")
			return nil
		case <-ticker.C:
			s.service.RunAutomatic(ctx)
		}
	}
}

func (s *Scheduler) runOnChange(ctx context.Context) error {
	changes := make(chan struct{}, 1)
	s.store.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	lastSeq, err := s.store.ChangeSeq(ctx)
	if err != nil {
		return fmt.Errorf("read change sequence: %w", err)
	}

	debounce := time.Duration(s.cfg.Backup.DebounceSeconds) * time.Second
	if debounce <= 0 {
		debounce = 5 * time.Second
	}
	pollInterval := time.Duration(s.cfg.Backup.CheckInterval) * time.Second
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}

	// The quiet timer starts stopped; the first change arms it.
	quiet := time.NewTimer(debounce)
	if !quiet.Stop() {
		<-quiet.C
	}
	defer quiet.Stop()

	poll := time.NewTicker(pollInterval)
	defer poll.Stop()

	armed := false
	arm := func() {
		if armed && !quiet.Stop() {
			select {
			case <-quiet.C:
			default:
			}
		}
		quiet.Reset(debounce)
		armed = true
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("backup watcher stopping")
			return nil
		case <-changes:
			arm()
		case <-poll.C:
			seq, err := s.store.ChangeSeq(ctx)
			if err != nil {
				s.logger.Warn("poll change sequence", logging.Error(err))
				continue
			}
			if seq != lastSeq {
				lastSeq = seq
				arm()
			}
		case <-quiet.C:
			armed = false
			if seq, err := s.store.ChangeSeq(ctx); err == nil {
				lastSeq = seq
			}
			s.service.RunAutomatic(ctx)
		}
	}
}
