package weather

import (
	"errors"
)

// Weather errors.
var (
	// ErrInvalidInput is returned for an empty or whitespace-only place name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLocationNotFound is returned when geocoding yields no usable candidate.
	ErrLocationNotFound = errors.New("location not found")

	// ErrForecastUnavailable is returned when the forecast bundle cannot be fetched.
	ErrForecastUnavailable = errors.New("forecast unavailable")

	// ErrHistoricalUnavailable marks a failed historical offset. It is recorded
	// per attempt and never returned from the aggregator.
	ErrHistoricalUnavailable = errors.New("historical data unavailable")
)

// UserMessage maps a pipeline error to the single message shown to the caller.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "Please enter a city name"
	case errors.Is(err, ErrLocationNotFound):
		return "City not found"
	case errors.Is(err, ErrForecastUnavailable):
		return "Failed to fetch weather data"
	default:
		return "An error occurred"
	}
}
