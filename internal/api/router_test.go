package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherwise/weatherwise/internal/api"
	"github.com/weatherwise/weatherwise/internal/api/middleware"
	"github.com/weatherwise/weatherwise/internal/api/models"
	"github.com/weatherwise/weatherwise/internal/pipeline"
	"github.com/weatherwise/weatherwise/internal/provider/resilience"
	"github.com/weatherwise/weatherwise/internal/weather"
	"github.com/weatherwise/weatherwise/internal/weather/openweathermap"
)

func fallbackRouter(t *testing.T, cfg api.RouterConfig) http.Handler {
	t.Helper()
	cfg.Logger = zerolog.Nop()
	if cfg.Reports == nil {
		cfg.Reports = pipeline.New(pipeline.Config{
			Random: rand.New(rand.NewPCG(1, 2)),
			Logger: zerolog.Nop(),
		})
	}
	return api.NewRouter(cfg)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	req.RemoteAddr = "198.51.100.7:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type stubRunner struct {
	err    error
	places []string
}

func (s *stubRunner) Run(_ context.Context, place string) (*pipeline.Report, error) {
	s.places = append(s.places, place)
	return nil, s.err
}

func TestHealthCheck(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{Version: "1.2.3", BuildTime: "2024-06-15"})

	rec := get(t, r, "/v1/ops/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	health := decode[models.Health](t, rec)
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
}

func TestReadinessCheck_FallbackIsAlwaysReady(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{})

	rec := get(t, r, "/v1/ops/ready")

	assert.Equal(t, http.StatusOK, rec.Code)
	health := decode[models.Health](t, rec)
	assert.Equal(t, string(models.DataModeFallback), health.Details["dataMode"])
}

// trippedClient returns a client whose circuit is already open.
func trippedClient(t *testing.T, name string) *resilience.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	cbConfig := resilience.DefaultCircuitBreakerConfig(name)
	cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 1 }
	clientCfg := resilience.DefaultClientConfig(name)
	clientCfg.MaxRetries = 0
	clientCfg.CircuitBreaker = &cbConfig
	client := resilience.NewClient(clientCfg)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)
	if resp, err := client.Do(req); err == nil {
		_ = resp.Body.Close()
	}
	require.Equal(t, gobreaker.StateOpen, client.CircuitBreakerState())
	return client
}

// trippedRegistry returns a registry whose only provider has an open circuit.
func trippedRegistry(t *testing.T) *resilience.Registry {
	t.Helper()
	registry := resilience.NewRegistry()
	registry.Register(openweathermap.ProviderName, trippedClient(t, openweathermap.ProviderName))
	registry.RecordFailure(openweathermap.ProviderName, errors.New("unexpected status code: 502"))
	return registry
}

// historyOutageRegistry has a healthy core provider and an open history circuit.
func historyOutageRegistry(t *testing.T) *resilience.Registry {
	t.Helper()
	registry := resilience.NewRegistry()
	registry.Register(openweathermap.ProviderName, resilience.NewClient(resilience.DefaultClientConfig(openweathermap.ProviderName)))
	registry.Register(openweathermap.HistoryProviderName, trippedClient(t, openweathermap.HistoryProviderName))
	return registry
}

func TestReadinessCheck_LiveWithOpenCircuit(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{Live: true, Registry: trippedRegistry(t), Reports: &stubRunner{}})

	rec := get(t, r, "/v1/ops/ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, models.HealthStatusFail, decode[models.Health](t, rec).Status)
}

func TestReadinessCheck_IgnoresBestEffortProviders(t *testing.T) {
	tests := []struct {
		name     string
		registry func(t *testing.T) *resilience.Registry
		critical []string
		want     int
	}{
		{"history circuit open", historyOutageRegistry, []string{openweathermap.ProviderName}, http.StatusOK},
		{"core circuit open", trippedRegistry, []string{openweathermap.ProviderName}, http.StatusServiceUnavailable},
		{"no critical list, one healthy provider", historyOutageRegistry, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fallbackRouter(t, api.RouterConfig{
				Live:              true,
				Registry:          tt.registry(t),
				CriticalProviders: tt.critical,
				Reports:           &stubRunner{},
			})

			rec := get(t, r, "/v1/ops/ready")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSystemStatus_ReportsProviders(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{Version: "1.2.3", Live: true, Registry: trippedRegistry(t), Reports: &stubRunner{}})

	rec := get(t, r, "/v1/ops/status")

	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[models.SystemStatus](t, rec)
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	assert.Equal(t, models.DataModeLive, status.DataMode)
	assert.Equal(t, "1.2.3", status.Version)

	require.Len(t, status.Providers, 1)
	p := status.Providers[0]
	assert.Equal(t, "openweathermap", p.Provider)
	assert.Equal(t, models.HealthStatusFail, p.Status)
	assert.Equal(t, "open", p.CircuitState)
	assert.NotNil(t, p.LastFailureAt)
	require.NotNil(t, p.Message)
	assert.Contains(t, *p.Message, "502")
}

func TestSystemStatus_NoRegistry(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{})

	status := decode[models.SystemStatus](t, get(t, r, "/v1/ops/status"))

	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.Equal(t, models.DataModeFallback, status.DataMode)
	assert.NotNil(t, status.Providers)
	assert.Empty(t, status.Providers)
}

func TestGetWeather_Fallback(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{})

	rec := get(t, r, "/v1/weather?q=Springfield")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	report := decode[models.WeatherReport](t, rec)
	assert.Equal(t, "fallback", report.Source)
	assert.Equal(t, "Springfield", report.Location.Name)
	assert.Equal(t, 22.5, report.Current.Temperature)
	assert.Len(t, report.Hourly, weather.MaxHourlyEntries)
	assert.Len(t, report.Daily, weather.MaxDailyEntries)
	require.Len(t, report.Historical, 2)
	assert.Equal(t, "Same day last year", report.Historical[0].Label)
	assert.NotEmpty(t, report.Advisories)
	assert.NotNil(t, report.Alerts)
	assert.NotEmpty(t, report.Story)
	assert.Len(t, report.Trivia, 4)
	for _, a := range report.Alerts {
		assert.Equal(t, "Thunderstorm Watch", a.Event)
		assert.Equal(t, "warning", a.Level)
		assert.Equal(t, 2, a.DurationHours)
	}
}

func TestGetAdvisories_Fallback(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{})

	rec := get(t, r, "/v1/weather/advisories?q=Shelbyville")

	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[models.AdvisoryReport](t, rec)
	assert.Equal(t, "Shelbyville", report.Location.Name)
	require.NotEmpty(t, report.Advisories)
	assert.Contains(t, []string{"info", "warning", "danger"}, report.HighestSeverity)
}

func TestGetWeather_QueryValidation(t *testing.T) {
	runner := &stubRunner{}
	r := fallbackRouter(t, api.RouterConfig{Reports: runner})

	rec := get(t, r, "/v1/weather")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	problem := decode[models.Problem](t, rec)
	assert.Equal(t, "Please enter a city name", problem.Detail)
	assert.Equal(t, "/v1/weather", problem.Instance)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	rec = get(t, r, "/v1/weather?q="+string(long))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Place name is too long", decode[models.Problem](t, rec).Detail)

	assert.Empty(t, runner.places, "invalid queries never reach the pipeline")
}

func TestGetWeather_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		detail string
	}{
		{weather.ErrInvalidInput, http.StatusBadRequest, "Please enter a city name"},
		{fmt.Errorf("%w: no match", weather.ErrLocationNotFound), http.StatusNotFound, "City not found"},
		{fmt.Errorf("%w: 503", weather.ErrForecastUnavailable), http.StatusServiceUnavailable, "Failed to fetch weather data"},
		{errors.New("boom"), http.StatusInternalServerError, "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.detail, func(t *testing.T) {
			runner := &stubRunner{err: tt.err}
			r := fallbackRouter(t, api.RouterConfig{Reports: runner})

			rec := get(t, r, "/v1/weather?q=%20Atlantis%20")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.detail, decode[models.Problem](t, rec).Detail)
			assert.Equal(t, []string{" Atlantis "}, runner.places)
		})
	}
}

func TestWeatherRoutes_RateLimited(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{WeatherRateLimit: middleware.PerMinute(2)})

	assert.Equal(t, http.StatusOK, get(t, r, "/v1/weather/advisories?q=Oslo").Code)
	assert.Equal(t, http.StatusOK, get(t, r, "/v1/weather/advisories?q=Oslo").Code)

	rec := get(t, r, "/v1/weather/advisories?q=Oslo")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(t, r, "/v1/ops/health").Code, "ops routes are not limited")
}

func TestUnknownRoute(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{})

	rec := get(t, r, "/v1/forecasts")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.ProblemTypeNotFound, decode[models.Problem](t, rec).Type)
}

func TestMethodNotAllowed(t *testing.T) {
	runner := &stubRunner{}
	r := fallbackRouter(t, api.RouterConfig{Reports: runner})

	req := httptest.NewRequest(http.MethodPost, "/v1/weather?q=Oslo", http.NoBody)
	req.RemoteAddr = "198.51.100.7:4242"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	problem := decode[models.Problem](t, rec)
	assert.Equal(t, models.ProblemTypeMethodNotAllowed, problem.Type)
	assert.Equal(t, http.StatusMethodNotAllowed, problem.Status)
	assert.Contains(t, problem.Detail, "POST")
	assert.Empty(t, runner.places)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := fallbackRouter(t, api.RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "trace-abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "trace-abc-123", rec.Header().Get("X-Request-Id"))
}
