package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of background work. Run receives a context bounded by the
// scheduler's per-run budget; implementations must respect its cancellation.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs the orchestrator's background jobs on cron schedules. Jobs
// are observability work (upstream health sweeps); the serving path never
// waits on them.
type Scheduler struct {
	cron       *cron.Cron
	runTimeout time.Duration
	log        zerolog.Logger
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		runTimeout: time.Minute,
		log:        log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for in-flight runs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a job with a cron schedule
// Schedule examples:
//   - "@every 5m"          - Every 5 minutes (upstream health sweep default)
//   - "0 0 6 * * *"        - 06:00 daily
//
// Each run gets a fresh context bounded by the run budget. A failed run is
// logged and the schedule keeps going; jobs are never retried early.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		s.log.Debug().Str("job", job.Name()).Msg("Running job")

		if err := job.Run(ctx); err != nil {
			s.log.Error().
				Err(err).
				Str("job", job.Name()).
				Msg("Job failed")
		} else {
			s.log.Debug().Str("job", job.Name()).Msg("Job completed")
		}
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
