package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/nodewatch/nodewatch/internal/telemetry"

// ProviderMetrics holds metrics for upstream telemetry provider calls.
type ProviderMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	samplesSkipped  metric.Int64Counter
}

// NewProviderMetrics creates the provider call instruments on the global meter.
func NewProviderMetrics() (*ProviderMetrics, error) {
	meter := Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	samplesSkipped, err := meter.Int64Counter(
		"provider.samples.skipped",
		metric.WithDescription("Feed entries dropped because their timestamp could not be parsed"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, err
	}

	return &ProviderMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		samplesSkipped:  samplesSkipped,
	}, nil
}

// RecordRequest records metrics for a provider request.
func (m *ProviderMetrics) RecordRequest(ctx context.Context, provider, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// The request context may already be done; metrics must still be recorded
	ctx = context.WithoutCancel(ctx)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSkipped records feed entries dropped while reshaping.
func (m *ProviderMetrics) RecordSkipped(ctx context.Context, provider string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.samplesSkipped.Add(context.WithoutCancel(ctx), int64(n),
		metric.WithAttributes(attribute.String("provider.name", provider)))
}
