package weather

import (
	"math"
	"strings"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Emoji returns a display emoji for the condition. Icons containing "d" are
// daytime icons.
func (c Condition) Emoji() string {
	isDay := strings.Contains(c.Icon, "d")

	switch strings.ToLower(c.Main) {
	case "clear":
		if isDay {
			return "☀️"
		}
		return "🌙"
	case "clouds":
		return "☁️"
	case "rain":
		return "🌧️"
	case "drizzle":
		return "🌦️"
	case "thunderstorm":
		return "⛈️"
	case "snow":
		return "❄️"
	case "mist", "fog":
		return "🌫️"
	case "haze":
		return "🌤️"
	default:
		if isDay {
			return "🌤️"
		}
		return "🌙"
	}
}

// WindDirection converts degrees to a 16-point compass label.
func WindDirection(degrees float64) string {
	idx := int(math.Round(degrees/22.5)) % len(compassPoints)
	if idx < 0 {
		idx += len(compassPoints)
	}
	return compassPoints[idx]
}
