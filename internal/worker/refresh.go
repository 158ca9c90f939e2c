package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/weatherpro/weatherpro/internal/telemetry"
	"github.com/weatherpro/weatherpro/internal/weather"
)

// Trigger sources.
const (
	SourceStartup  = "startup"
	SourceSchedule = "schedule"
	SourcePubSub   = "pubsub"
	SourceAPI      = "api"
)

// Dashboard is the state a refresh acts on. *weather.Service implements it.
type Dashboard interface {
	City() string
	Refresh(ctx context.Context) (weather.Snapshot, error)
	SelectCity(ctx context.Context, city string) (weather.Snapshot, error)
	Lookup(ctx context.Context, city string) (weather.Snapshot, error)
}

// Trigger asks for a refresh. A non-empty City selects that city first.
type Trigger struct {
	Source string
	City   string
}

// RefreshJob runs refresh triggers against the dashboard and keeps
// statistics about them.
type RefreshJob struct {
	config    RefreshConfig
	logger    zerolog.Logger
	dashboard Dashboard

	metrics   *RefreshMetrics
	telemetry *telemetry.RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRefreshes      int64
	SuccessfulRefreshes int64
	FailedRefreshes     int64
	SupersededRefreshes int64
	CityChanges         int64

	// Timings
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration

	LastError string
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config    RefreshConfig
	Logger    zerolog.Logger
	Dashboard Dashboard

	// Telemetry exports refresh counts and durations (optional).
	Telemetry *telemetry.RefreshMetrics
}

// NewRefreshJob creates a new refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if config.Timeout == 0 {
		config.Timeout = DefaultRefreshConfig().Timeout
	}

	return &RefreshJob{
		config:    config,
		logger:    cfg.Logger,
		dashboard: cfg.Dashboard,
		metrics:   &RefreshMetrics{},
		telemetry: cfg.Telemetry,
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	RunID     string
	Source    string
	City      string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Snapshot  weather.Snapshot
	Err       error
}

// Succeeded reports whether the refresh replaced the snapshot.
func (r *RefreshResult) Succeeded() bool {
	return r.Err == nil
}

// Run executes one refresh trigger.
func (j *RefreshJob) Run(ctx context.Context, trigger Trigger) *RefreshResult {
	result := &RefreshResult{
		RunID:     uuid.New().String(),
		Source:    trigger.Source,
		City:      trigger.City,
		StartTime: time.Now(),
	}
	if result.City == "" {
		result.City = j.dashboard.City()
	}

	logger := j.logger.With().
		Str("run_id", result.RunID).
		Str("source", trigger.Source).
		Str("city", result.City).
		Logger()

	logger.Debug().Msg("starting weather refresh")

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if trigger.City != "" {
		result.Snapshot, result.Err = j.dashboard.SelectCity(runCtx, trigger.City)
	} else {
		result.Snapshot, result.Err = j.dashboard.Refresh(runCtx)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	j.updateMetrics(result, trigger.City != "")

	switch {
	case result.Err == nil:
		logger.Info().
			Dur("duration", result.Duration).
			Msg("weather refresh completed")
	case errors.Is(result.Err, weather.ErrSuperseded):
		logger.Debug().Msg("weather refresh superseded")
	default:
		logger.Error().
			Err(result.Err).
			Dur("duration", result.Duration).
			Msg("weather refresh failed")
	}

	return result
}

// Check fetches the current city without touching the dashboard state, to
// verify provider connectivity.
func (j *RefreshJob) Check(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	_, err := j.dashboard.Lookup(checkCtx, j.dashboard.City())
	return err
}

func (j *RefreshJob) updateMetrics(result *RefreshResult, cityChange bool) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	outcome := telemetry.RefreshOutcomeSuccess
	j.metrics.TotalRefreshes++
	switch {
	case result.Err == nil:
		j.metrics.SuccessfulRefreshes++
		if cityChange {
			j.metrics.CityChanges++
		}
	case errors.Is(result.Err, weather.ErrSuperseded):
		j.metrics.SupersededRefreshes++
		outcome = telemetry.RefreshOutcomeSuperseded
	default:
		j.metrics.FailedRefreshes++
		j.metrics.LastError = result.Err.Error()
		outcome = telemetry.RefreshOutcomeFailure
	}
	j.telemetry.RecordRefresh(result.Source, outcome, result.Duration)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefreshes: j.metrics.SuccessfulRefreshes,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		SupersededRefreshes: j.metrics.SupersededRefreshes,
		CityChanges:         j.metrics.CityChanges,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
		LastError:           j.metrics.LastError,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefreshes,
		"failed_refreshes":      m.FailedRefreshes,
		"superseded_refreshes":  m.SupersededRefreshes,
		"city_changes":          m.CityChanges,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
		"last_error":            m.LastError,
	}
}
