// Package api provides the HTTP API for WeatherWise.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/weatherwise/weatherwise/internal/api/handler"
	"github.com/weatherwise/weatherwise/internal/api/middleware"
	"github.com/weatherwise/weatherwise/internal/api/response"
	"github.com/weatherwise/weatherwise/internal/provider/resilience"
)

// DefaultServiceName names the API in traces when RouterConfig leaves it empty.
const DefaultServiceName = "weatherwise-api"

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// Reports serves the weather endpoints.
	Reports handler.ReportRunner

	// Live reports whether Reports serves live provider data.
	Live bool

	// Registry exposes provider circuit health on /v1/ops/status (optional).
	Registry *resilience.Registry

	// CriticalProviders are the registry entries readiness depends on. Empty
	// means every registered provider.
	CriticalProviders []string

	// WeatherRateLimit is the per-IP budget of the weather endpoints. Zero
	// uses middleware.DefaultWeatherRateLimit.
	WeatherRateLimit middleware.RateLimitConfig

	// RequireTLS rejects plain-HTTP requests forwarded by a load balancer.
	RequireTLS bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	limit := cfg.WeatherRateLimit
	if limit.RequestLimit == 0 {
		limit = middleware.DefaultWeatherRateLimit
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "No such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r)
	})

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Live:      cfg.Live,
		Registry:  cfg.Registry,
		Critical:  cfg.CriticalProviders,
	})
	weatherHandler := handler.NewWeatherHandler(cfg.Reports, cfg.Logger.With().Str("component", "weather_handler").Logger())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Every weather request can fan out to five provider calls.
		r.Route("/weather", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(limit))
			r.Get("/", weatherHandler.GetWeather)
			r.Get("/advisories", weatherHandler.GetAdvisories)
		})
	})

	return r
}
