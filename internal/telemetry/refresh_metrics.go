package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Refresh outcomes.
const (
	RefreshOutcomeSuccess    = "success"
	RefreshOutcomeFailure    = "failure"
	RefreshOutcomeSuperseded = "superseded"
)

// RefreshMetrics holds instruments for dashboard refreshes.
type RefreshMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

// NewRefreshMetrics creates the refresh instruments on the global meter.
func NewRefreshMetrics() (*RefreshMetrics, error) {
	meter := otel.Meter(providerMeterName)

	duration, err := meter.Float64Histogram(
		"weather.refresh.duration",
		metric.WithDescription("Duration of dashboard refreshes in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"weather.refresh.total",
		metric.WithDescription("Total number of dashboard refreshes"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, err
	}

	return &RefreshMetrics{duration: duration, total: total}, nil
}

// RecordRefresh records one refresh. Safe to call on a nil receiver.
func (m *RefreshMetrics) RecordRefresh(source, outcome string, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("refresh.source", source),
		attribute.String("refresh.outcome", outcome),
	)
	ctx := context.Background()
	m.duration.Record(ctx, duration.Seconds(), attrs)
	m.total.Add(ctx, 1, attrs)
}
