package weather

import (
	"context"
	"time"
)

// Geocoder turns free text into candidate locations, best match first.
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]Location, error)
}

// ForecastProvider fetches the current/hourly/daily/alerts bundle.
// The returned Snapshot's Location is overwritten by the caller.
type ForecastProvider interface {
	GetForecast(ctx context.Context, lat, lon float64) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// HistoryProvider fetches a point-in-time reading.
type HistoryProvider interface {
	GetHistorical(ctx context.Context, lat, lon float64, at time.Time) (*HistoricalReading, error)
}
