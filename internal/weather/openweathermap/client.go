package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/weatherwise/weatherwise/internal/provider/resilience"
	"github.com/weatherwise/weatherwise/internal/telemetry"
	"github.com/weatherwise/weatherwise/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// HistoryProviderName identifies the time-machine endpoint, which runs
	// behind its own circuit breaker.
	HistoryProviderName = ProviderName + "-history"

	// DefaultGeoURL is the OpenWeatherMap geocoding API base URL.
	DefaultGeoURL = "https://api.openweathermap.org/geo/1.0"

	// DefaultOneCallURL is the OpenWeatherMap OneCall API 3.0 base URL.
	DefaultOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"
)

// ErrMalformedResponse is returned when a response decodes but lacks the
// fields the caller needs.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for non-success HTTP statuses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// GeoURL is the geocoding API URL (optional).
	GeoURL string

	// OneCallURL is the OneCall API URL (optional, defaults to OneCall 3.0).
	OneCallURL string

	// HTTPClient carries geocoding and forecast requests (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// HistoryHTTPClient carries time-machine requests (optional). It must not
	// share a circuit breaker with HTTPClient: historical lookups are best
	// effort and their failures must not open the breaker resolve and
	// forecast depend on. If nil, uses a resilient client with defaults.
	HistoryHTTPClient *resilience.Client

	// Registry receives success/failure reports (optional).
	Registry *resilience.Registry

	// Metrics records request durations (optional).
	Metrics *telemetry.ProviderMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client. It implements weather.Geocoder,
// weather.ForecastProvider and weather.HistoryProvider.
type Client struct {
	apiKey     string
	geoURL     string
	oneCallURL string
	core       upstream
	history    upstream
	registry   *resilience.Registry
	metrics    *telemetry.ProviderMetrics
	logger     zerolog.Logger
}

// upstream pairs a resilient client with the name it reports under.
type upstream struct {
	name string
	http *resilience.Client
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	geoURL := cfg.GeoURL
	if geoURL == "" {
		geoURL = DefaultGeoURL
	}

	oneCallURL := cfg.OneCallURL
	if oneCallURL == "" {
		oneCallURL = DefaultOneCallURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	historyClient := cfg.HistoryHTTPClient
	if historyClient == nil {
		historyClient = resilience.NewClient(resilience.DefaultClientConfig(HistoryProviderName))
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(ProviderName, httpClient)
		cfg.Registry.Register(HistoryProviderName, historyClient)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		geoURL:     geoURL,
		oneCallURL: oneCallURL,
		core:       upstream{name: ProviderName, http: httpClient},
		history:    upstream{name: HistoryProviderName, http: historyClient},
		registry:   cfg.Registry,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Geocode resolves a free-text place name to at most limit candidates.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("appid", c.apiKey)

	var geoResp []geocodingResult
	if err := c.getJSON(ctx, c.core, "geocode", c.geoURL+"/direct", params, &geoResp); err != nil {
		return nil, err
	}

	locations := make([]weather.Location, 0, len(geoResp))
	for _, g := range geoResp {
		locations = append(locations, weather.Location{
			Name:    g.Name,
			Country: g.Country,
			Lat:     g.Lat,
			Lon:     g.Lon,
		})
	}

	return locations, nil
}

// GetForecast fetches current conditions, hourly and daily forecasts and
// alerts for a location. Sequences are returned as delivered.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	params := coordParams(lat, lon)
	params.Set("exclude", "minutely")
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var owmResp oneCallResponse
	if err := c.getJSON(ctx, c.core, "forecast", c.oneCallURL, params, &owmResp); err != nil {
		return nil, err
	}

	return c.toSnapshot(&owmResp), nil
}

// GetHistorical fetches the reading closest to at.
func (c *Client) GetHistorical(ctx context.Context, lat, lon float64, at time.Time) (*weather.HistoricalReading, error) {
	params := coordParams(lat, lon)
	params.Set("dt", strconv.FormatInt(at.Unix(), 10))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var owmResp timeMachineResponse
	if err := c.getJSON(ctx, c.history, "timemachine", c.oneCallURL+"/timemachine", params, &owmResp); err != nil {
		return nil, err
	}

	point := owmResp.Current
	if len(owmResp.Data) > 0 && owmResp.Data[0].Temp != nil {
		point = &owmResp.Data[0]
	}
	if point == nil || point.Temp == nil {
		return nil, ErrMalformedResponse
	}

	reading := &weather.HistoricalReading{Temperature: *point.Temp}
	if len(point.Weather) > 0 {
		reading.Description = point.Weather[0].Description
	}

	return reading, nil
}

func (c *Client) getJSON(ctx context.Context, up upstream, operation, endpoint string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordRequest(up.name, operation, time.Since(start), err)
		}
		if c.registry != nil {
			if err != nil {
				c.registry.RecordFailure(up.name, err)
			} else {
				c.registry.RecordSuccess(up.name)
			}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := up.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Msg("provider returned non-success status")
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	return params
}

// toSnapshot converts a OneCall response to the domain model.
func (c *Client) toSnapshot(resp *oneCallResponse) *weather.Snapshot {
	snap := &weather.Snapshot{
		Location: weather.Location{Lat: resp.Lat, Lon: resp.Lon},
		Current: weather.CurrentConditions{
			Temperature:   resp.Current.Temp,
			FeelsLike:     resp.Current.FeelsLike,
			Humidity:      resp.Current.Humidity,
			WindSpeed:     resp.Current.WindSpeed,
			WindDirection: resp.Current.WindDeg,
			Conditions:    toConditions(resp.Current.Weather),
			Sunrise:       unixTime(resp.Current.Sunrise),
			Sunset:        unixTime(resp.Current.Sunset),
			UVIndex:       resp.Current.UVI,
		},
		Hourly:    make([]weather.HourlyForecast, 0, len(resp.Hourly)),
		Daily:     make([]weather.DailyForecast, 0, len(resp.Daily)),
		Alerts:    make([]weather.Alert, 0, len(resp.Alerts)),
		Source:    ProviderName,
		FetchedAt: time.Now(),
	}

	for _, h := range resp.Hourly {
		snap.Hourly = append(snap.Hourly, weather.HourlyForecast{
			Time:        unixTime(h.Dt),
			Temperature: h.Temp,
			Conditions:  toConditions(h.Weather),
			PrecipProb:  h.Pop,
		})
	}

	for _, d := range resp.Daily {
		snap.Daily = append(snap.Daily, weather.DailyForecast{
			Time: unixTime(d.Dt),
			Temperature: weather.DailyTemperature{
				Day:   d.Temp.Day,
				Night: d.Temp.Night,
				Min:   d.Temp.Min,
				Max:   d.Temp.Max,
			},
			Conditions: toConditions(d.Weather),
			PrecipProb: d.Pop,
			Humidity:   d.Humidity,
			WindSpeed:  d.WindSpeed,
			Sunrise:    unixTime(d.Sunrise),
			Sunset:     unixTime(d.Sunset),
		})
	}

	for _, a := range resp.Alerts {
		snap.Alerts = append(snap.Alerts, weather.Alert{
			Sender:      a.SenderName,
			Event:       a.Event,
			Start:       unixTime(a.Start),
			End:         unixTime(a.End),
			Description: a.Description,
			Tags:        a.Tags,
		})
	}

	return snap
}

func toConditions(items []conditionItem) []weather.Condition {
	conditions := make([]weather.Condition, 0, len(items))
	for _, w := range items {
		conditions = append(conditions, weather.Condition{
			Main:        w.Main,
			Description: w.Description,
			Icon:        w.Icon,
		})
	}
	return conditions
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
