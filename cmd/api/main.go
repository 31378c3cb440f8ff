// Package main provides the entrypoint for the WeatherWise API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/weatherwise/weatherwise/internal/api"
	"github.com/weatherwise/weatherwise/internal/api/middleware"
	"github.com/weatherwise/weatherwise/internal/config"
	"github.com/weatherwise/weatherwise/internal/pipeline"
	"github.com/weatherwise/weatherwise/internal/provider/resilience"
	"github.com/weatherwise/weatherwise/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = api.DefaultServiceName

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(log zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log = log.Level(cfg.ZerologLevel())

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Bool("live_data", cfg.LiveDataConfigured()).
		Msg("starting WeatherWise API")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing http metrics: %w", err)
	}

	registry := resilience.NewRegistry()
	reports := pipeline.New(pipeline.Config{
		APIKey:          cfg.OpenWeatherAPIKey,
		GeoURL:          cfg.OpenWeatherGeoURL,
		OneCallURL:      cfg.OpenWeatherOneCallURL,
		CallTimeout:     cfg.ProviderCallTimeout,
		Registry:        registry,
		ProviderMetrics: tp.Providers,
		Metrics:         tp.Pipeline,
		Logger:          log,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           httpMetrics,
		Reports:           reports,
		Live:              reports.Live(),
		Registry:          registry,
		CriticalProviders: reports.CriticalProviders(),
		WeatherRateLimit:  middleware.PerMinute(cfg.RateLimitPerMinute),
		RequireTLS:        cfg.RequireTLS,
	})

	// A report makes up to five sequential provider calls.
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 6 * cfg.ProviderCallTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
