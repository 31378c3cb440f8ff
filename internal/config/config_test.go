package config_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherwise/weatherwise/internal/config"
)

var envKeys = []string{
	"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "OPENWEATHER_ONECALL_URL", "OPENWEATHER_GEO_URL",
	"APP_PORT", "APP_ENV", "PROVIDER_CALL_TIMEOUT", "RATE_LIMIT_PER_MINUTE",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "LOG_LEVEL", "REQUIRE_TLS",
	"OTEL_TRACES_SAMPLE_RATIO",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.ProviderCallTimeout)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, zerolog.InfoLevel, cfg.ZerologLevel())
	assert.False(t, cfg.OTelEnabled)
	assert.InDelta(t, 1.0, cfg.OTelSampleRatio, 1e-9)
	assert.False(t, cfg.RequireTLS)
	assert.False(t, cfg.LiveDataConfigured())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", " abc123 ")
	t.Setenv("OPENWEATHER_BASE_URL", "https://owm.example.com/data/3.0/onecall")
	t.Setenv("OPENWEATHER_GEO_URL", "https://owm.example.com/geo/1.0")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PROVIDER_CALL_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("REQUIRE_TLS", "true")
	t.Setenv("OTEL_TRACES_SAMPLE_RATIO", "0.25")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.OpenWeatherAPIKey)
	assert.True(t, cfg.LiveDataConfigured())
	assert.Equal(t, "https://owm.example.com/data/3.0/onecall", cfg.OpenWeatherOneCallURL)
	assert.Equal(t, "https://owm.example.com/geo/1.0", cfg.OpenWeatherGeoURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 3*time.Second, cfg.ProviderCallTimeout)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
	assert.Equal(t, zerolog.DebugLevel, cfg.ZerologLevel())
	assert.True(t, cfg.OTelEnabled)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
	assert.True(t, cfg.RequireTLS)
	assert.InDelta(t, 0.25, cfg.OTelSampleRatio, 1e-9)
}

func TestFromEnv_OneCallURLWinsOverBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_BASE_URL", "https://base.example.com")
	t.Setenv("OPENWEATHER_ONECALL_URL", "https://onecall.example.com")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://onecall.example.com", cfg.OpenWeatherOneCallURL)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non numeric port", "APP_PORT", "http"},
		{"port out of range", "APP_PORT", "70000"},
		{"bad timeout", "PROVIDER_CALL_TIMEOUT", "soon"},
		{"timeout too small", "PROVIDER_CALL_TIMEOUT", "1ms"},
		{"zero rate limit", "RATE_LIMIT_PER_MINUTE", "0"},
		{"unknown environment", "APP_ENV", "moon"},
		{"unknown log level", "LOG_LEVEL", "loud"},
		{"bad geo url", "OPENWEATHER_GEO_URL", "not a url"},
		{"non numeric sample ratio", "OTEL_TRACES_SAMPLE_RATIO", "most"},
		{"sample ratio above one", "OTEL_TRACES_SAMPLE_RATIO", "1.5"},
		{"zero sample ratio", "OTEL_TRACES_SAMPLE_RATIO", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLiveKey(t *testing.T) {
	assert.False(t, config.LiveKey(""))
	assert.False(t, config.LiveKey("   "))
	assert.False(t, config.LiveKey(config.PlaceholderAPIKey))
	assert.True(t, config.LiveKey("0123456789abcdef"))
}
