// Package weather provides the normalized weather model and the acquisition
// stages that build it: location resolution, forecast acquisition and the
// historical same-day backfill.
package weather

import (
	"time"
)

// Hard caps applied to provider sequences after retrieval.
const (
	MaxHourlyEntries = 12
	MaxDailyEntries  = 7
)

// Location is a resolved place. It is immutable once produced by a Resolver.
type Location struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}

// Condition describes one weather condition reported by the provider.
type Condition struct {
	// Main is the category name, e.g. "Rain" or "Thunderstorm".
	Main        string
	Description string
	Icon        string
}

// CurrentConditions holds the observation at acquisition time.
type CurrentConditions struct {
	// Temperature in Celsius
	Temperature float64
	FeelsLike   float64

	// Humidity percentage (0-100)
	Humidity float64

	WindSpeed     float64 // m/s
	WindDirection float64 // degrees (0-360, 0=N)

	// Conditions is ordered; the first entry is the primary condition.
	Conditions []Condition

	Sunrise time.Time
	Sunset  time.Time

	// UVIndex is nil when the provider did not report one.
	UVIndex *float64
}

// Primary returns the primary condition, or the zero Condition if none.
func (c CurrentConditions) Primary() Condition {
	if len(c.Conditions) == 0 {
		return Condition{}
	}
	return c.Conditions[0]
}

// HourlyForecast represents weather for a specific hour.
type HourlyForecast struct {
	Time        time.Time
	Temperature float64
	Conditions  []Condition
	PrecipProb  float64 // Probability of precipitation (0-1)
}

// DailyTemperature holds the temperatures of a forecast day.
type DailyTemperature struct {
	Day   float64
	Night float64
	Min   float64
	Max   float64
}

// DailyForecast represents weather for a specific day.
type DailyForecast struct {
	Time        time.Time
	Temperature DailyTemperature
	Conditions  []Condition
	PrecipProb  float64
	Humidity    float64
	WindSpeed   float64
	Sunrise     time.Time
	Sunset      time.Time
}

// Alert is a hazard alert issued by the provider. Start never follows End.
type Alert struct {
	Sender      string
	Event       string
	Start       time.Time
	End         time.Time
	Description string
	Tags        []string
}

// Snapshot is the complete normalized weather picture for one location at one
// acquisition moment. Re-querying produces a new Snapshot; callers must not
// mutate one after it has been returned.
type Snapshot struct {
	Location Location
	Current  CurrentConditions
	Hourly   []HourlyForecast
	Daily    []DailyForecast
	Alerts   []Alert

	// Source names the provider (or the fallback synthesizer) that produced it.
	Source    string
	FetchedAt time.Time
}

// HistoricalSample is a same-calendar-day reading from a previous year.
type HistoricalSample struct {
	// Label is a human-readable relative date, e.g. "Same day 2 years ago".
	Label       string
	Temperature float64
	Description string
	Year        int
	YearsAgo    int
}

// HistoricalReading is the raw provider answer for a point in time.
type HistoricalReading struct {
	Temperature float64
	Description string
}
