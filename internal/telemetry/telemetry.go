// Package telemetry wires OpenTelemetry for the weather service: OTLP trace
// and metric export when enabled, the global noop providers otherwise, and
// the instruments the report pipeline and its providers record into.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultServiceName is used when Config.ServiceName is empty.
	DefaultServiceName = "weatherwise"

	// DefaultMetricInterval is the export period when Config.MetricInterval is zero.
	DefaultMetricInterval = 15 * time.Second
)

// Config holds configuration for telemetry setup.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	Enabled        bool

	// SampleRatio is the fraction of new traces recorded, in (0, 1].
	// Zero records every trace. Child spans follow their parent's decision.
	SampleRatio float64

	// MetricInterval is the metric export period (optional).
	MetricInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		c.SampleRatio = 1
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = DefaultMetricInterval
	}
	return c
}

// Provider holds the initialized telemetry providers and the weather
// instruments registered on its meter.
type Provider struct {
	// TracerProvider and MeterProvider are nil when telemetry is disabled.
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider

	Tracer trace.Tracer
	Meter  metric.Meter

	// Providers records outbound provider calls.
	Providers *ProviderMetrics

	// Pipeline records finished report runs.
	Pipeline *PipelineMetrics
}

// Shutdown flushes and shuts down the SDK providers. Both are always asked
// to shut down; their errors are joined.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		errs = append(errs, p.TracerProvider.Shutdown(ctx))
	}
	if p.MeterProvider != nil {
		errs = append(errs, p.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Init sets up telemetry and the weather instruments. When cfg.Enabled is
// false nothing is exported and the global (noop) providers are used.
// The returned Provider must be shut down when the application exits.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	cfg = cfg.withDefaults()
	if !cfg.Enabled {
		return newProvider(cfg, nil, nil)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building resource: %w", err)
	}

	tracerProvider, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	meterProvider, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx) //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p, err := newProvider(cfg, tracerProvider, meterProvider)
	if err != nil {
		_ = errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx)) //nolint:errcheck // best effort cleanup
		return nil, err
	}
	return p, nil
}

// newProvider registers the weather instruments. Nil SDK providers fall
// back to the global tracer and meter.
func newProvider(cfg Config, tp *sdktrace.TracerProvider, mp *sdkmetric.MeterProvider) (*Provider, error) {
	p := &Provider{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         otel.Tracer(cfg.ServiceName),
		Meter:          otel.Meter(cfg.ServiceName),
	}
	if tp != nil {
		p.Tracer = tp.Tracer(cfg.ServiceName)
	}
	if mp != nil {
		p.Meter = mp.Meter(cfg.ServiceName)
	}

	var err error
	if p.Providers, err = NewProviderMetrics(p.Meter); err != nil {
		return nil, fmt.Errorf("provider metrics: %w", err)
	}
	if p.Pipeline, err = NewPipelineMetrics(p.Meter); err != nil {
		return nil, fmt.Errorf("pipeline metrics: %w", err)
	}
	return p, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRatio)),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.MetricInterval),
		)),
		sdkmetric.WithResource(res),
	), nil
}

// Sampler returns the trace sampler for ratio: every trace at 1 or above,
// otherwise a parent-based ratio sampler.
func Sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
