package advisory

import (
	"math"
	"strings"

	"github.com/weatherwise/weatherwise/internal/weather"
)

// Hazard is a display classification of one provider-issued alert.
type Hazard struct {
	Alert         weather.Alert
	Icon          string
	Level         Severity
	DurationHours int
}

var hazardIcons = []struct {
	keywords []string
	icon     string
}{
	{[]string{"thunder", "storm"}, "⛈️"},
	{[]string{"rain", "flood"}, "🌧️"},
	{[]string{"wind", "gale"}, "💨"},
	{[]string{"snow", "blizzard"}, "❄️"},
	{[]string{"heat"}, "🌡️"},
	{[]string{"fog"}, "🌫️"},
}

// HazardIcon picks an icon from keywords in the alert event name.
func HazardIcon(event string) string {
	e := strings.ToLower(event)
	for _, h := range hazardIcons {
		if containsAny(e, h.keywords...) {
			return h.icon
		}
	}
	return "⚠️"
}

// HazardLevel grades an alert by its event name: warnings and severe events
// are danger, watches and advisories are warnings, anything else is info.
func HazardLevel(event string) Severity {
	e := strings.ToLower(event)
	switch {
	case containsAny(e, "warning", "severe"):
		return SeverityDanger
	case containsAny(e, "watch", "advisory"):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// ClassifyAlerts classifies every alert of a snapshot, in snapshot order.
func ClassifyAlerts(alerts []weather.Alert) []Hazard {
	hazards := make([]Hazard, 0, len(alerts))
	for _, a := range alerts {
		hazards = append(hazards, Hazard{
			Alert:         a,
			Icon:          HazardIcon(a.Event),
			Level:         HazardLevel(a.Event),
			DurationHours: int(math.Round(a.End.Sub(a.Start).Hours())),
		})
	}
	return hazards
}
