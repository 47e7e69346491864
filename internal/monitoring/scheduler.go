package monitoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/fittrack-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// backupTimeout bounds a single scheduled backup run.
const backupTimeout = 5 * time.Minute

// Scheduler runs periodic backups of the document store.
type Scheduler struct {
	backupSvc services.BackupServiceProvider
	schedule  string
	retain    int
	cron      *cron.Cron
}

// NewScheduler creates a new scheduler. An empty schedule disables scheduled backups.
func NewScheduler(backupSvc services.BackupServiceProvider, schedule string, retain int) (*Scheduler, error) {
	s := &Scheduler{
		backupSvc: backupSvc,
		schedule:  strings.TrimSpace(schedule),
		retain:    retain,
	}
	if s.schedule == "" {
		return s, nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", s.schedule, err)
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.runScheduled); err != nil {
		return nil, fmt.Errorf("could not register backup job: %w", err)
	}
	return s, nil
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start begins running scheduled backups in the background.
func (s *Scheduler) Start() {
	if !s.Enabled() {
		log.Info().Msg("Backup scheduler disabled")
		return
	}
	log.Info().Str("schedule", s.schedule).Int("retain", s.retain).Msg("Starting backup scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running backup to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("Stopped backup scheduler.")
	case <-ctx.Done():
		log.Warn().Msg("Backup scheduler did not stop in time")
	}
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()
	if err := s.RunBackup(ctx); err != nil {
		log.Error().Err(err).Msg("Scheduler: scheduled backup failed")
	}
}

// RunBackup creates a backup and then prunes old ones down to the retain count.
func (s *Scheduler) RunBackup(ctx context.Context) error {
	backup, err := s.backupSvc.CreateBackup(ctx)
	if err != nil {
		return err
	}

	removed, err := s.backupSvc.PruneBackups(ctx, s.retain)
	if err != nil {
		return fmt.Errorf("backup %s created but pruning failed: %w", backup.Name, err)
	}
	log.Info().Str("backup", backup.Name).Int("pruned", removed).Msg("Scheduler: backup completed")
	return nil
}
