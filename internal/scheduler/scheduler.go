// Package scheduler runs the dashboard's background jobs on cron schedules.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	metrics *metrics.Registry
}

// New creates a new scheduler. Schedules take six fields, seconds first.
func New(log zerolog.Logger, m *metrics.Registry) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		log:     log.With().Str("component", "scheduler").Logger(),
		metrics: m,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job with a cron schedule. An empty schedule leaves the
// job disabled.
// Schedule examples:
//   - "0 */15 * * * *"     - Every 15 minutes
//   - "0 5 22 * * MON-FRI" - 22:05 on weekdays
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if schedule == "" {
		s.log.Info().Str("job", job.Name()).Msg("Job disabled")
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		_ = s.run(job)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	s.log.Debug().Str("job", job.Name()).Msg("Running job")

	err := job.Run()
	s.metrics.RecordJob(job.Name(), err)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Msg("Job failed")
		return err
	}

	s.log.Debug().Str("job", job.Name()).Msg("Job completed")
	return nil
}
