package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProviderMetrics holds instruments for outbound weather provider calls.
type ProviderMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// NewProviderMetrics registers the provider call instruments on meter.
// Init does this for the service meter.
func NewProviderMetrics(meter metric.Meter) (*ProviderMetrics, error) {
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

	return &ProviderMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// RecordRequest records metrics for a provider request.
func (m *ProviderMetrics) RecordRequest(provider, operation string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
		attribute.String("provider.operation", operation),
	}

	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Metrics outlive the request context.
	ctx := context.Background()
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// PipelineMetrics counts report runs by data source and advisories emitted.
type PipelineMetrics struct {
	runs       metric.Int64Counter
	advisories metric.Int64Counter
	historical metric.Int64Histogram
}

// NewPipelineMetrics registers the report pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter(
		"pipeline.run.total",
		metric.WithDescription("Number of weather report runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	advisories, err := meter.Int64Counter(
		"pipeline.advisory.total",
		metric.WithDescription("Number of advisories emitted"),
		metric.WithUnit("{advisory}"),
	)
	if err != nil {
		return nil, err
	}

	historical, err := meter.Int64Histogram(
		"pipeline.historical.samples",
		metric.WithDescription("Historical samples collected per run"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		runs:       runs,
		advisories: advisories,
		historical: historical,
	}, nil
}

// RecordRun records one finished pipeline run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, source string, advisories, historical int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("weather.source", source),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	set := metric.WithAttributes(attrs...)
	m.runs.Add(ctx, 1, set)
	if err != nil {
		return
	}
	m.advisories.Add(ctx, int64(advisories), set)
	m.historical.Record(ctx, int64(historical), set)
}
