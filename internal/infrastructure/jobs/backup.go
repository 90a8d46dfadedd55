// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taskmaster/planner/internal/infrastructure/logger"
)

// BackupFunc copies the data files and returns the paths written.
type BackupFunc func(ctx context.Context, trigger string) ([]string, error)

// BackupScheduler runs a BackupFunc on a standard five-field cron spec.
type BackupScheduler struct {
	cron    *cron.Cron
	backup  BackupFunc
	logger  *logger.Logger
	timeout time.Duration
}

// NewBackupScheduler parses spec and registers the backup job. The job is
// not started until Start is called.
func NewBackupScheduler(spec string, backup BackupFunc, appLogger *logger.Logger) (*BackupScheduler, error) {
	log := appLogger.WithComponent("backup_job")
	cl := cronLogger{log}

	s := &BackupScheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		backup:  backup,
		logger:  log,
		timeout: time.Minute,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *BackupScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	paths, err := s.backup(ctx, "cron")
	if err != nil {
		s.logger.Errorw("Scheduled backup failed", "error", err)
		return
	}
	s.logger.Infow("Scheduled backup completed", "files", paths)
}

// Start runs the scheduler in its own goroutine.
func (s *BackupScheduler) Start() {
	s.cron.Start()
	s.logger.Infow("Backup scheduler started", "next_run", s.Next())
}

// Stop halts the scheduler and waits for a running backup until ctx ends.
func (s *BackupScheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *BackupScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

type cronLogger struct {
	l *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
