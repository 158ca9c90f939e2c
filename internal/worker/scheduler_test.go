package worker_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherpro/weatherpro/internal/worker"
)

func TestNewScheduler_RejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		_, err := worker.NewScheduler(worker.SchedulerConfig{
			Config:     worker.RefreshConfig{Interval: interval, Timeout: time.Second},
			RefreshJob: newTestJob(&fakeDashboard{city: "London"}, worker.DefaultRefreshConfig()),
			Logger:     zerolog.Nop(),
		})
		assert.Error(t, err, interval.String())
	}
}

func TestScheduler_RefreshesCurrentCity(t *testing.T) {
	dashboard := &fakeDashboard{city: "Tokyo"}
	cfg := worker.RefreshConfig{Interval: 50 * time.Millisecond, Timeout: time.Second}
	job := newTestJob(dashboard, cfg)

	scheduler, err := worker.NewScheduler(worker.SchedulerConfig{
		Config:     cfg,
		RefreshJob: job,
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	require.NoError(t, scheduler.Start())

	assert.Eventually(t, func() bool { return dashboard.refreshCount() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, scheduler.Shutdown())

	m := job.GetMetrics()
	assert.GreaterOrEqual(t, m.TotalRefreshes, int64(2))
	assert.Equal(t, m.TotalRefreshes, m.SuccessfulRefreshes)
	assert.Empty(t, dashboard.selected)
}
