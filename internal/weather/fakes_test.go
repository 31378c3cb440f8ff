package weather_test

import (
	"context"
	"time"

	"github.com/weatherwise/weatherwise/internal/weather"
)

type fakeGeocoder struct {
	locations []weather.Location
	err       error
	queries   []string
	limits    []int
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string, limit int) ([]weather.Location, error) {
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, limit)
	return f.locations, f.err
}

type fakeForecasts struct {
	bundle *weather.Snapshot
	err    error
	calls  int
}

func (f *fakeForecasts) GetForecast(_ context.Context, _, _ float64) (*weather.Snapshot, error) {
	f.calls++
	return f.bundle, f.err
}

func (f *fakeForecasts) Name() string { return "fake" }

// fakeHistory answers by target year; a missing year is a failure.
type fakeHistory struct {
	readings map[int]*weather.HistoricalReading
	errs     map[int]error
	targets  []time.Time
}

func (f *fakeHistory) GetHistorical(_ context.Context, _, _ float64, at time.Time) (*weather.HistoricalReading, error) {
	f.targets = append(f.targets, at)
	if err, ok := f.errs[at.Year()]; ok {
		return nil, err
	}
	return f.readings[at.Year()], nil
}
