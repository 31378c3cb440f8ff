package pipeline

import (
	"context"
	"time"

	"github.com/weatherwise/weatherwise/internal/weather"
)

// The decorators below bound every individual provider call. A zero
// duration leaves the caller's context untouched.

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

type timeoutGeocoder struct {
	next    weather.Geocoder
	timeout time.Duration
}

func (g timeoutGeocoder) Geocode(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Geocode(ctx, query, limit)
}

type timeoutForecasts struct {
	next    weather.ForecastProvider
	timeout time.Duration
}

func (f timeoutForecasts) GetForecast(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	ctx, cancel := withTimeout(ctx, f.timeout)
	defer cancel()
	return f.next.GetForecast(ctx, lat, lon)
}

func (f timeoutForecasts) Name() string {
	return f.next.Name()
}

type timeoutHistory struct {
	next    weather.HistoryProvider
	timeout time.Duration
}

func (h timeoutHistory) GetHistorical(ctx context.Context, lat, lon float64, at time.Time) (*weather.HistoricalReading, error) {
	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()
	return h.next.GetHistorical(ctx, lat, lon, at)
}
