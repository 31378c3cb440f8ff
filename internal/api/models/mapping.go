package models

import (
	"github.com/weatherwise/weatherwise/internal/advisory"
	"github.com/weatherwise/weatherwise/internal/funfacts"
	"github.com/weatherwise/weatherwise/internal/pipeline"
	"github.com/weatherwise/weatherwise/internal/weather"
)

// NewWeatherReport renders a pipeline report for the wire.
func NewWeatherReport(report *pipeline.Report) WeatherReport {
	snap := report.Snapshot

	hourly := make([]HourlyForecast, 0, len(snap.Hourly))
	for _, h := range snap.Hourly {
		hourly = append(hourly, HourlyForecast{
			Time:        Timestamp(h.Time),
			Temperature: h.Temperature,
			Conditions:  toConditions(h.Conditions),
			PrecipProb:  h.PrecipProb,
		})
	}

	daily := make([]DailyForecast, 0, len(snap.Daily))
	for _, d := range snap.Daily {
		daily = append(daily, DailyForecast{
			Time:        Timestamp(d.Time),
			Temperature: DailyTemperature(d.Temperature),
			Conditions:  toConditions(d.Conditions),
			PrecipProb:  d.PrecipProb,
			Humidity:    d.Humidity,
			WindSpeed:   d.WindSpeed,
			Sunrise:     TimestampPtr(d.Sunrise),
			Sunset:      TimestampPtr(d.Sunset),
		})
	}

	historical := make([]HistoricalSample, 0, len(report.Historical))
	for _, s := range report.Historical {
		historical = append(historical, HistoricalSample{
			Label:       s.Label,
			Year:        s.Year,
			YearsAgo:    s.YearsAgo,
			Temperature: s.Temperature,
			Description: s.Description,
		})
	}

	return WeatherReport{
		Source:     report.Source,
		FetchedAt:  Timestamp(snap.FetchedAt),
		Location:   toLocation(snap.Location),
		Current:    toCurrent(snap.Current),
		Hourly:     hourly,
		Daily:      daily,
		Alerts:     toAlerts(report.Hazards),
		Historical: historical,
		Advisories: toAdvisories(report.Advisories),
		Story:      report.Story,
		DidYouKnow: report.DidYouKnow,
		Trivia:     toTrivia(report.Trivia),
	}
}

// NewAdvisoryReport renders only the advisories of a pipeline report.
func NewAdvisoryReport(report *pipeline.Report) AdvisoryReport {
	return AdvisoryReport{
		Location:        toLocation(report.Snapshot.Location),
		HighestSeverity: string(advisory.Highest(report.Advisories)),
		Advisories:      toAdvisories(report.Advisories),
	}
}

func toLocation(loc weather.Location) Location {
	return Location{Name: loc.Name, Country: loc.Country, Lat: loc.Lat, Lon: loc.Lon}
}

func toCurrent(c weather.CurrentConditions) CurrentConditions {
	return CurrentConditions{
		Temperature:   c.Temperature,
		FeelsLike:     c.FeelsLike,
		Humidity:      c.Humidity,
		WindSpeed:     c.WindSpeed,
		WindDirection: weather.WindDirection(c.WindDirection),
		Conditions:    toConditions(c.Conditions),
		Sunrise:       TimestampPtr(c.Sunrise),
		Sunset:        TimestampPtr(c.Sunset),
		UVIndex:       c.UVIndex,
	}
}

func toConditions(conditions []weather.Condition) []Condition {
	out := make([]Condition, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, Condition{
			Main:        c.Main,
			Description: c.Description,
			Icon:        c.Icon,
			Emoji:       c.Emoji(),
		})
	}
	return out
}

// toAlerts renders alerts through their hazard classification, which keeps
// the provider order.
func toAlerts(hazards []advisory.Hazard) []Alert {
	out := make([]Alert, 0, len(hazards))
	for _, h := range hazards {
		tags := h.Alert.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, Alert{
			Sender:        h.Alert.Sender,
			Event:         h.Alert.Event,
			Start:         Timestamp(h.Alert.Start),
			End:           Timestamp(h.Alert.End),
			Description:   h.Alert.Description,
			Tags:          tags,
			Icon:          h.Icon,
			Level:         string(h.Level),
			DurationHours: h.DurationHours,
		})
	}
	return out
}

func toAdvisories(advisories []advisory.Advisory) []Advisory {
	out := make([]Advisory, 0, len(advisories))
	for _, a := range advisories {
		out = append(out, Advisory{
			Kind:     string(a.Kind),
			Icon:     a.Icon,
			Message:  a.Message,
			Severity: string(a.Severity),
		})
	}
	return out
}

func toTrivia(cards []funfacts.Card) []TriviaCard {
	out := make([]TriviaCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, TriviaCard(c))
	}
	return out
}
