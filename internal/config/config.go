// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// PlaceholderAPIKey is the value shipped in sample configuration. It counts
// as "no key".
const PlaceholderAPIKey = "YOUR_OPENWEATHER_API_KEY"

var validate = validator.New()

// Config is the application configuration.
type Config struct {
	// OpenWeather credentials and endpoints. An empty or placeholder key
	// selects the fallback data path.
	OpenWeatherAPIKey     string
	OpenWeatherGeoURL     string `validate:"omitempty,url"`
	OpenWeatherOneCallURL string `validate:"omitempty,url"`

	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"required,oneof=development staging production test"`
	LogLevel    string `validate:"required,oneof=trace debug info warn error"`

	// ProviderCallTimeout bounds each pipeline stage's provider calls.
	ProviderCallTimeout time.Duration `validate:"min=100ms"`

	// RateLimitPerMinute is the per-IP request budget of the HTTP API.
	RateLimitPerMinute int `validate:"min=1"`

	// RequireTLS rejects requests forwarded over plain HTTP.
	RequireTLS bool

	OTelEnabled  bool
	OTLPEndpoint string `validate:"required_if=OTelEnabled true"`

	// OTelSampleRatio is the fraction of new traces recorded.
	OTelSampleRatio float64 `validate:"gt=0,lte=1"`
}

// Load reads configuration from the environment after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv reads configuration from the current environment only.
func FromEnv() (*Config, error) {
	port, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return nil, err
	}

	timeout, err := getEnvDuration("PROVIDER_CALL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	sampleRatio, err := getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OpenWeatherAPIKey:     strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		OpenWeatherGeoURL:     os.Getenv("OPENWEATHER_GEO_URL"),
		OpenWeatherOneCallURL: getEnv("OPENWEATHER_ONECALL_URL", os.Getenv("OPENWEATHER_BASE_URL")),
		Port:                  port,
		Environment:           getEnv("APP_ENV", "development"),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ProviderCallTimeout:   timeout,
		RateLimitPerMinute:    rateLimit,
		RequireTLS:            os.Getenv("REQUIRE_TLS") == "true",
		OTelEnabled:           os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:          getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio:       sampleRatio,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LiveDataConfigured reports whether a real OpenWeather key is present. It
// is the only switch between live and fallback data.
func (c *Config) LiveDataConfigured() bool {
	return LiveKey(c.OpenWeatherAPIKey)
}

// LiveKey reports whether key is usable for live requests.
func LiveKey(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

// ZerologLevel returns the parsed log level, defaulting to info.
func (c *Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
