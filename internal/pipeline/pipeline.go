// Package pipeline runs one weather report: resolve the place, acquire the
// forecast, backfill history and derive advisories. When no provider key is
// configured the synthesized fallback replaces the first three stages.
package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weatherwise/weatherwise/internal/advisory"
	"github.com/weatherwise/weatherwise/internal/config"
	"github.com/weatherwise/weatherwise/internal/funfacts"
	"github.com/weatherwise/weatherwise/internal/provider/resilience"
	"github.com/weatherwise/weatherwise/internal/telemetry"
	"github.com/weatherwise/weatherwise/internal/weather"
	"github.com/weatherwise/weatherwise/internal/weather/fallback"
	"github.com/weatherwise/weatherwise/internal/weather/openweathermap"
)

const tracerName = "github.com/weatherwise/weatherwise/internal/pipeline"

// DefaultCallTimeout bounds a single provider call when Config.CallTimeout
// is zero.
const DefaultCallTimeout = 10 * time.Second

// Random drives the fallback data and the fun facts. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// sharedRandom draws from the math/rand/v2 top-level source, which is safe
// for concurrent use unlike a *rand.Rand.
type sharedRandom struct{}

func (sharedRandom) Float64() float64 { return rand.Float64() }

// Config holds everything a Pipeline needs. It is read once by New.
type Config struct {
	// APIKey is the OpenWeather key. Empty or placeholder selects fallback.
	APIKey string

	// GeoURL and OneCallURL override the OpenWeather endpoints (optional).
	GeoURL     string
	OneCallURL string

	// Geocoder, Forecasts and History override the live providers
	// (optional). Unset providers use the OpenWeather client.
	Geocoder  weather.Geocoder
	Forecasts weather.ForecastProvider
	History   weather.HistoryProvider

	// HTTPClient carries geocoding and forecast calls (optional).
	HTTPClient *resilience.Client

	// HistoryHTTPClient carries historical calls behind a separate circuit
	// breaker (optional).
	HistoryHTTPClient *resilience.Client

	// CallTimeout bounds every individual provider call.
	CallTimeout time.Duration

	// Random drives synthesized values and fun facts (optional). Set a
	// seeded *rand.Rand only for single-goroutine use such as tests.
	Random Random

	// Now overrides the clock (optional).
	Now func() time.Time

	// Registry and ProviderMetrics receive provider call outcomes (optional).
	Registry        *resilience.Registry
	ProviderMetrics *telemetry.ProviderMetrics

	// Metrics records finished runs (optional).
	Metrics *telemetry.PipelineMetrics

	// Rules overrides the advisory rule set (optional).
	Rules []advisory.Rule

	Logger zerolog.Logger
}

// Report is the full result of one run.
type Report struct {
	// Source is the provider name or "fallback".
	Source string

	Snapshot   *weather.Snapshot
	Historical []weather.HistoricalSample

	// Advisories are in rule order.
	Advisories []advisory.Advisory
	Hazards    []advisory.Hazard

	Story      string
	DidYouKnow string
	Trivia     []funfacts.Card
}

// Pipeline runs weather reports. It is safe for concurrent use as long as
// the configured Random is; the default one is.
type Pipeline struct {
	live bool

	resolver *weather.Resolver
	acquirer *weather.Acquirer
	backfill *weather.Backfill
	synth    *fallback.Synthesizer
	engine   *advisory.Engine
	facts    *funfacts.Generator

	metrics *telemetry.PipelineMetrics
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// New builds a Pipeline. The live/fallback choice is made here from the
// configured key and holds for every Run.
func New(cfg Config) *Pipeline {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = DefaultCallTimeout
	}

	rules := cfg.Rules
	if rules == nil {
		rules = advisory.DefaultRules
	}

	var random Random = sharedRandom{}
	if cfg.Random != nil {
		random = cfg.Random
	}

	p := &Pipeline{
		live:    config.LiveKey(cfg.APIKey),
		engine:  advisory.NewEngineWithRules(rules, cfg.Logger.With().Str("component", "advisory").Logger()),
		facts:   funfacts.New(random, now),
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(tracerName),
		logger:  cfg.Logger,
	}

	if !p.live {
		p.synth = fallback.New(fallback.Config{
			Random: random,
			Now:    now,
			Logger: cfg.Logger.With().Str("component", "fallback").Logger(),
		})
		cfg.Logger.Info().Msg("no OpenWeather key configured, serving synthesized weather")
		return p
	}

	geocoder, forecasts, history := cfg.Geocoder, cfg.Forecasts, cfg.History
	if geocoder == nil || forecasts == nil || history == nil {
		client := newOpenWeatherClient(cfg, timeout)
		if geocoder == nil {
			geocoder = client
		}
		if forecasts == nil {
			forecasts = client
		}
		if history == nil {
			history = client
		}
	}

	p.resolver = weather.NewResolver(timeoutGeocoder{next: geocoder, timeout: timeout},
		cfg.Logger.With().Str("component", "resolver").Logger())
	p.acquirer = weather.NewAcquirer(weather.AcquirerConfig{
		Provider: timeoutForecasts{next: forecasts, timeout: timeout},
		Logger:   cfg.Logger.With().Str("component", "acquirer").Logger(),
		Now:      now,
	})
	p.backfill = weather.NewBackfill(weather.BackfillConfig{
		Provider: timeoutHistory{next: history, timeout: timeout},
		Logger:   cfg.Logger.With().Str("component", "backfill").Logger(),
		Now:      now,
	})

	return p
}

func newOpenWeatherClient(cfg Config, timeout time.Duration) *openweathermap.Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newResilientClient(openweathermap.ProviderName, timeout, cfg.Logger)
	}

	historyClient := cfg.HistoryHTTPClient
	if historyClient == nil {
		historyClient = newResilientClient(openweathermap.HistoryProviderName, timeout, cfg.Logger)
	}

	return openweathermap.NewClient(openweathermap.ClientConfig{
		APIKey:            cfg.APIKey,
		GeoURL:            cfg.GeoURL,
		OneCallURL:        cfg.OneCallURL,
		HTTPClient:        httpClient,
		HistoryHTTPClient: historyClient,
		Registry:          cfg.Registry,
		Metrics:           cfg.ProviderMetrics,
		Logger:            cfg.Logger.With().Str("component", "openweathermap").Logger(),
	})
}

func newResilientClient(name string, timeout time.Duration, logger zerolog.Logger) *resilience.Client {
	clientCfg := resilience.DefaultClientConfig(name)
	clientCfg.Timeout = timeout
	clientCfg.CircuitBreaker.OnStateChange = resilience.LogStateChanges(logger)
	return resilience.NewClient(clientCfg)
}

// Live reports whether runs use live provider data.
func (p *Pipeline) Live() bool {
	return p.live
}

// CriticalProviders names the registry entries a live run cannot succeed
// without. Historical lookups are best effort and never listed.
func (p *Pipeline) CriticalProviders() []string {
	if !p.live {
		return nil
	}
	return []string{openweathermap.ProviderName}
}

// Run produces a report for place. It fails only with ErrInvalidInput,
// ErrLocationNotFound or ErrForecastUnavailable (possibly wrapped);
// historical failures only shorten Report.Historical.
func (p *Pipeline) Run(ctx context.Context, place string) (report *Report, err error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.Bool("weather.live", p.live)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if p.metrics != nil {
			source := fallback.Source
			var advisories, historical int
			if report != nil {
				source = report.Source
				advisories = len(report.Advisories)
				historical = len(report.Historical)
			}
			p.metrics.RecordRun(ctx, source, advisories, historical, err)
		}
	}()

	q, err := weather.NormalizePlace(place)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("weather.place", q))

	var (
		snap       *weather.Snapshot
		historical []weather.HistoricalSample
	)

	if p.live {
		snap, historical, err = p.runLive(ctx, q)
		if err != nil {
			return nil, err
		}
	} else {
		snap = p.synth.Snapshot(q)
		historical = p.synth.Historical()
	}

	report = &Report{
		Source:     snap.Source,
		Snapshot:   snap,
		Historical: historical,
		Advisories: p.advise(ctx, snap),
		Hazards:    advisory.ClassifyAlerts(snap.Alerts),
		Story:      p.facts.Story(snap.Current.Primary().Main, snap.Current.Temperature),
		DidYouKnow: p.facts.DidYouKnow(),
		Trivia:     funfacts.Trivia(snap.Current),
	}

	p.logger.Info().
		Str("place", q).
		Str("source", report.Source).
		Int("historical", len(historical)).
		Int("advisories", len(report.Advisories)).
		Msg("weather report ready")

	return report, nil
}

func (p *Pipeline) runLive(ctx context.Context, place string) (*weather.Snapshot, []weather.HistoricalSample, error) {
	var loc weather.Location
	err := p.stage(ctx, "resolve", place, func(ctx context.Context) error {
		var err error
		loc, err = p.resolver.Resolve(ctx, place)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var snap *weather.Snapshot
	err = p.stage(ctx, "forecast", place, func(ctx context.Context) error {
		var err error
		snap, err = p.acquirer.Acquire(ctx, loc)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var historical []weather.HistoricalSample
	_ = p.stage(ctx, "history", place, func(ctx context.Context) error {
		historical = p.backfill.Collect(ctx, loc)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("weather.historical.samples", len(historical)))
		return nil
	})

	return snap, historical, nil
}

func (p *Pipeline) advise(ctx context.Context, snap *weather.Snapshot) []advisory.Advisory {
	_, span := p.tracer.Start(ctx, "pipeline.advise")
	defer span.End()

	advisories := p.engine.Evaluate(snap)
	span.SetAttributes(
		attribute.Int("advisory.count", len(advisories)),
		attribute.String("advisory.highest", string(advisory.Highest(advisories))),
	)
	return advisories
}

// stage runs fn inside a "pipeline.<name>" span and logs failures.
func (p *Pipeline) stage(ctx context.Context, name, place string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error().Err(err).
			Str("place", place).
			Str("stage", name).
			Msg("pipeline stage failed")
		return err
	}
	return nil
}
