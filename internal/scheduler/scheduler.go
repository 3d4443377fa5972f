// Package scheduler runs the periodic session purge.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"weather-dashboard/internal/observability"
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler purges expired sessions on a fixed interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    SessionPurger
	interval  time.Duration
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// New creates a scheduler. Nothing runs until Start.
func New(purger SessionPurger, interval time.Duration, metrics *observability.Metrics, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		purger:    purger,
		interval:  interval,
		metrics:   metrics,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the purge job, which first runs immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler: interval must be positive, got %s", s.interval)
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduler: schedule session purge: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info().Dur("interval", s.interval).Msg("session purge scheduled")
	return nil
}

// RunOnce purges expired sessions now.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("session purge failed")
		return
	}
	s.metrics.SessionsPurged.Add(float64(n))
	s.logger.Debug().Int64("purged", n).Msg("session purge completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
