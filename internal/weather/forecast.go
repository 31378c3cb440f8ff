package weather

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// AcquirerConfig holds configuration for the forecast acquirer.
type AcquirerConfig struct {
	// Provider is the forecast bundle provider.
	Provider ForecastProvider

	// Logger for acquirer operations.
	Logger zerolog.Logger

	// Now overrides the clock used for FetchedAt (optional).
	Now func() time.Time
}

// Acquirer fetches the forecast bundle for a resolved location and normalizes it.
type Acquirer struct {
	provider ForecastProvider
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAcquirer creates a new forecast acquirer.
func NewAcquirer(cfg AcquirerConfig) *Acquirer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Acquirer{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Acquire returns a fresh Snapshot for loc. Hourly and daily entries are
// ordered earliest first and truncated to MaxHourlyEntries and
// MaxDailyEntries; extra entries are discarded.
func (a *Acquirer) Acquire(ctx context.Context, loc Location) (*Snapshot, error) {
	a.logger.Debug().
		Float64("lat", loc.Lat).
		Float64("lon", loc.Lon).
		Str("provider", a.provider.Name()).
		Msg("fetching forecast from provider")

	bundle, err := a.provider.GetForecast(ctx, loc.Lat, loc.Lon)
	if err != nil {
		a.logger.Debug().Err(err).
			Float64("lat", loc.Lat).
			Float64("lon", loc.Lon).
			Msg("failed to fetch forecast")
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}
	if bundle == nil {
		return nil, fmt.Errorf("%w: empty response", ErrForecastUnavailable)
	}

	return Normalize(loc, bundle, a.provider.Name(), a.now()), nil
}

// Normalize builds a new Snapshot for loc from a raw provider bundle without
// sharing slices with it.
func Normalize(loc Location, bundle *Snapshot, source string, fetchedAt time.Time) *Snapshot {
	current := bundle.Current
	current.Conditions = slices.Clone(bundle.Current.Conditions)
	if bundle.Current.UVIndex != nil {
		uv := *bundle.Current.UVIndex
		current.UVIndex = &uv
	}

	hourly := slices.Clone(bundle.Hourly)
	slices.SortStableFunc(hourly, func(a, b HourlyForecast) int {
		return a.Time.Compare(b.Time)
	})
	if len(hourly) > MaxHourlyEntries {
		hourly = hourly[:MaxHourlyEntries]
	}

	daily := slices.Clone(bundle.Daily)
	slices.SortStableFunc(daily, func(a, b DailyForecast) int {
		return a.Time.Compare(b.Time)
	})
	if len(daily) > MaxDailyEntries {
		daily = daily[:MaxDailyEntries]
	}

	alerts := make([]Alert, 0, len(bundle.Alerts))
	for _, al := range bundle.Alerts {
		al.Tags = slices.Clone(al.Tags)
		if al.End.Before(al.Start) {
			al.End = al.Start
		}
		alerts = append(alerts, al)
	}

	return &Snapshot{
		Location:  loc,
		Current:   current,
		Hourly:    slices.Clip(hourly),
		Daily:     slices.Clip(daily),
		Alerts:    alerts,
		Source:    source,
		FetchedAt: fetchedAt,
	}
}
