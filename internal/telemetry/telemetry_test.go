package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/weatherwise/weatherwise/internal/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "weatherwise-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})

	require.NoError(t, err)
	assert.NotNil(t, provider.Tracer)
	assert.NotNil(t, provider.Meter)
	assert.NotNil(t, provider.Providers)
	assert.NotNil(t, provider.Pipeline)

	// Noop provider has no SDK providers to flush.
	assert.Nil(t, provider.TracerProvider)
	assert.Nil(t, provider.MeterProvider)

	assert.NoError(t, provider.Shutdown(ctx))
}

func TestInit_DisabledInstrumentsAreUsable(t *testing.T) {
	provider, err := telemetry.Init(context.Background(), telemetry.Config{})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		provider.Providers.RecordRequest("openweathermap", "geocode", time.Millisecond, nil)
		provider.Pipeline.RecordRun(context.Background(), "fallback", 1, 2, nil)
	})
}

func TestProvider_Shutdown_NilProviders(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, sdktrace.AlwaysSample().Description()},
		{1, sdktrace.AlwaysSample().Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, telemetry.Sampler(tt.ratio).Description(), "ratio %v", tt.ratio)
	}
}

// collect returns the metrics recorded on reader, keyed by name.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func testMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func TestProviderMetrics_RecordRequest(t *testing.T) {
	reader, mp := testMeter(t)
	pm, err := telemetry.NewProviderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	pm.RecordRequest("openweathermap", "forecast", 120*time.Millisecond, nil)
	pm.RecordRequest("openweathermap-history", "timemachine", time.Second, errors.New("timeout"))

	metrics := collect(t, reader)

	total, ok := metrics["provider.request.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var sum int64
	for _, dp := range total.DataPoints {
		sum += dp.Value
	}
	assert.Equal(t, int64(2), sum)
	assert.Len(t, total.DataPoints, 2, "one series per provider and outcome")

	_, ok = metrics["provider.request.duration"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestPipelineMetrics_RecordRun(t *testing.T) {
	reader, mp := testMeter(t)
	m, err := telemetry.NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	m.RecordRun(context.Background(), "openweathermap", 3, 2, nil)
	m.RecordRun(context.Background(), "fallback", 0, 0, errors.New("invalid input"))

	metrics := collect(t, reader)

	runs, ok := metrics["pipeline.run.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, runs.DataPoints, 2)

	advisories, ok := metrics["pipeline.advisory.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, advisories.DataPoints, 1, "failed runs record no advisories")
	assert.Equal(t, int64(3), advisories.DataPoints[0].Value)
}
