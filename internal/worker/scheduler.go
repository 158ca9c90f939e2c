package worker

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Scheduler refreshes the current city at a fixed interval.
type Scheduler struct {
	scheduler  gocron.Scheduler
	refreshJob *RefreshJob
	config     RefreshConfig
	logger     zerolog.Logger
}

// SchedulerConfig holds configuration for the refresh scheduler.
type SchedulerConfig struct {
	Config     RefreshConfig
	RefreshJob *RefreshJob
	Logger     zerolog.Logger
}

// NewScheduler creates a scheduler. It does nothing until Start is called.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Config.Interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", cfg.Config.Interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	return &Scheduler{
		scheduler:  scheduler,
		refreshJob: cfg.RefreshJob,
		config:     cfg.Config,
		logger:     cfg.Logger,
	}, nil
}

// Start registers the refresh job and starts the scheduler without
// blocking. The first run happens one interval after Start.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.config.Interval),
		gocron.NewTask(func(ctx context.Context) {
			s.refreshJob.Run(ctx, Trigger{Source: SourceSchedule})
		}),
		gocron.WithName("weather-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling refresh job: %w", err)
	}

	s.scheduler.Start()

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Msg("refresh scheduler started")

	return nil
}

// Shutdown stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutting down scheduler: %w", err)
	}
	s.logger.Info().Msg("refresh scheduler stopped")
	return nil
}
