// Package fallback synthesizes demo weather data for deployments that have no
// provider credentials. Nothing in this package touches the network.
package fallback

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"github.com/sj14/astral/pkg/astral"

	"github.com/weatherwise/weatherwise/internal/weather"
)

// Source is the value reported in Snapshot.Source for synthesized data.
const Source = "fallback"

// AlertThreshold is the draw above which a synthetic alert is injected,
// giving roughly a 30% chance per snapshot.
const AlertThreshold = 0.7

// Demo location used for every synthesized snapshot.
const (
	DemoCountry = "Demo Country"
	DemoLat     = 40.7128
	DemoLon     = -74.0060
)

// Random is the source of every random value in a synthesized snapshot.
// *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Config holds configuration for the synthesizer.
type Config struct {
	// Random drives hourly/daily values and alert injection (optional).
	// Defaults to a time-seeded PCG source.
	Random Random

	// Now overrides the clock (optional).
	Now func() time.Time

	// Logger for synthesizer operations.
	Logger zerolog.Logger
}

// Synthesizer builds structurally complete snapshots and historical samples.
type Synthesizer struct {
	random Random
	now    func() time.Time
	logger zerolog.Logger
}

// New creates a new Synthesizer.
func New(cfg Config) *Synthesizer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	random := cfg.Random
	if random == nil {
		seed := uint64(time.Now().UnixNano())
		random = rand.New(rand.NewPCG(seed, seed>>1))
	}

	return &Synthesizer{
		random: random,
		now:    now,
		logger: cfg.Logger,
	}
}

var scatteredClouds = weather.Condition{
	Main:        "Clouds",
	Description: "scattered clouds",
	Icon:        "03d",
}

// Snapshot returns a synthesized snapshot for place: fixed current
// conditions, 12 hourly and 7 daily entries starting now, and an occasional
// thunderstorm watch.
func (s *Synthesizer) Snapshot(place string) *weather.Snapshot {
	now := s.now().Truncate(time.Second)
	observer := astral.Observer{Latitude: DemoLat, Longitude: DemoLon}

	uv := 5.2
	sunrise, sunset := s.sunTimes(observer, now)

	snap := &weather.Snapshot{
		Location: weather.Location{
			Name:    place,
			Country: DemoCountry,
			Lat:     DemoLat,
			Lon:     DemoLon,
		},
		Current: weather.CurrentConditions{
			Temperature: 22.5,
			FeelsLike:   24.2,
			Humidity:    65,
			WindSpeed:   3.4,
			Conditions:  []weather.Condition{scatteredClouds},
			Sunrise:     sunrise,
			Sunset:      sunset,
			UVIndex:     &uv,
		},
		Hourly:    make([]weather.HourlyForecast, 0, weather.MaxHourlyEntries),
		Daily:     make([]weather.DailyForecast, 0, weather.MaxDailyEntries),
		Alerts:    []weather.Alert{},
		Source:    Source,
		FetchedAt: now,
	}

	for i := range weather.MaxHourlyEntries {
		snap.Hourly = append(snap.Hourly, weather.HourlyForecast{
			Time:        now.Add(time.Duration(i) * time.Hour),
			Temperature: 20 + s.random.Float64()*10,
			Conditions:  []weather.Condition{scatteredClouds},
			PrecipProb:  s.random.Float64() * 0.8,
		})
	}

	for i := range weather.MaxDailyEntries {
		day := now.AddDate(0, 0, i)
		daySunrise, daySunset := s.sunTimes(observer, day)
		snap.Daily = append(snap.Daily, weather.DailyForecast{
			Time: day,
			Temperature: weather.DailyTemperature{
				Day:   20 + s.random.Float64()*10,
				Night: 15 + s.random.Float64()*5,
				Min:   15 + s.random.Float64()*3,
				Max:   25 + s.random.Float64()*8,
			},
			Conditions: []weather.Condition{scatteredClouds},
			PrecipProb: s.random.Float64() * 0.7,
			Humidity:   60 + s.random.Float64()*20,
			WindSpeed:  2 + s.random.Float64()*5,
			Sunrise:    daySunrise,
			Sunset:     daySunset,
		})
	}

	if s.random.Float64() > AlertThreshold {
		snap.Alerts = append(snap.Alerts, weather.Alert{
			Sender:      "National Weather Service",
			Event:       "Thunderstorm Watch",
			Start:       now,
			End:         now.Add(2 * time.Hour),
			Description: "Thunderstorms are possible in your area. Stay indoors and avoid outdoor activities.",
			Tags:        []string{"Thunderstorm"},
		})
	}

	s.logger.Debug().
		Str("place", place).
		Int("alerts", len(snap.Alerts)).
		Msg("synthesized fallback snapshot")

	return snap
}

// Historical returns the two fixed illustrative samples for one and two
// years back.
func (s *Synthesizer) Historical() []weather.HistoricalSample {
	year := s.now().Year()
	return []weather.HistoricalSample{
		{
			Label:       "Same day last year",
			Temperature: 18.5,
			Description: "sunny with light clouds",
			Year:        year - 1,
			YearsAgo:    1,
		},
		{
			Label:       "Same day 2 years ago",
			Temperature: 25.3,
			Description: "partly cloudy",
			Year:        year - 2,
			YearsAgo:    2,
		},
	}
}

// sunTimes computes sunrise and sunset for the demo location. Polar edge
// cases that astral cannot resolve fall back to six hours either side of at.
func (s *Synthesizer) sunTimes(observer astral.Observer, at time.Time) (time.Time, time.Time) {
	sunrise, err := astral.Sunrise(observer, at)
	if err != nil {
		sunrise = at.Add(-6 * time.Hour)
	}
	sunset, err := astral.Sunset(observer, at)
	if err != nil {
		sunset = at.Add(6 * time.Hour)
	}
	return sunrise, sunset
}
