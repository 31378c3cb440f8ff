package advisory

import (
	"strings"

	"github.com/weatherwise/weatherwise/internal/weather"
)

// Thresholds, in the snapshot's metric units.
const (
	FreezingC        = 0.0
	ChillyBelowC     = 10.0
	ExtremeHeatOverC = 35.0
	HotFromC         = 30.0
	WindOverMS       = 10.0
	HumidOverPct     = 85.0
	HumidHeatOverC   = 25.0
	HighUVOver       = 7.0

	// AlertDescriptionRunes is how much of a provider alert description is
	// quoted in its advisory.
	AlertDescriptionRunes = 100
)

// Rule is one independent advisory rule. Evaluate may return zero, one or
// more advisories.
type Rule struct {
	Name     string
	Evaluate func(snap *weather.Snapshot) []Advisory
}

// DefaultRules is the fixed rule set, in evaluation order.
var DefaultRules = []Rule{
	{Name: "precipitation", Evaluate: rainRule},
	{Name: "thunderstorm", Evaluate: thunderstormRule},
	{Name: "snow", Evaluate: snowRule},
	{Name: "cold", Evaluate: coldRule},
	{Name: "heat", Evaluate: heatRule},
	{Name: "wind", Evaluate: windRule},
	{Name: "humidity", Evaluate: humidityRule},
	{Name: "visibility", Evaluate: visibilityRule},
	{Name: "uv", Evaluate: uvRule},
	{Name: "provider-alerts", Evaluate: providerAlertRule},
}

func category(snap *weather.Snapshot) string {
	return strings.ToLower(snap.Current.Primary().Main)
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func one(kind Kind, icon, message string, severity Severity) []Advisory {
	return []Advisory{{Kind: kind, Icon: icon, Message: message, Severity: severity}}
}

func rainRule(snap *weather.Snapshot) []Advisory {
	if !containsAny(category(snap), "rain", "drizzle") {
		return nil
	}
	return one(KindRain, "☔", "Carry an umbrella and wear waterproof clothing", SeverityWarning)
}

func thunderstormRule(snap *weather.Snapshot) []Advisory {
	if !strings.Contains(category(snap), "thunderstorm") {
		return nil
	}
	return []Advisory{
		{Kind: KindThunderstormIndoors, Icon: "⛈️", Message: "Avoid outdoor activities. Stay indoors and away from windows", Severity: SeverityDanger},
		{Kind: KindThunderstormDriving, Icon: "🚗", Message: "Avoid driving if possible. If you must, drive slowly", Severity: SeverityDanger},
	}
}

func snowRule(snap *weather.Snapshot) []Advisory {
	if !containsAny(category(snap), "snow", "blizzard") {
		return nil
	}
	return one(KindSnow, "❄️", "Wear warm layers and carry gloves. Roads may be slippery", SeverityWarning)
}

func coldRule(snap *weather.Snapshot) []Advisory {
	temp := snap.Current.Temperature
	switch {
	case temp < FreezingC:
		return one(KindExtremeCold, "🥶", "Extremely cold! Wear multiple layers and limit time outdoors", SeverityDanger)
	case temp < ChillyBelowC:
		return one(KindChilly, "🧥", "It's chilly! Wear a warm jacket", SeverityInfo)
	}
	return nil
}

func heatRule(snap *weather.Snapshot) []Advisory {
	temp := snap.Current.Temperature
	switch {
	case temp > ExtremeHeatOverC:
		return one(KindExtremeHeat, "🥵", "Extreme heat! Stay hydrated, wear light clothing, avoid sun exposure", SeverityDanger)
	case temp >= HotFromC:
		return one(KindHot, "☀️", "Hot weather! Drink plenty of water and wear sunscreen", SeverityWarning)
	}
	return nil
}

func windRule(snap *weather.Snapshot) []Advisory {
	if snap.Current.WindSpeed <= WindOverMS {
		return nil
	}
	return one(KindWind, "💨", "Strong winds! Secure loose items and be careful while driving", SeverityWarning)
}

func humidityRule(snap *weather.Snapshot) []Advisory {
	if snap.Current.Humidity <= HumidOverPct || snap.Current.Temperature <= HumidHeatOverC {
		return nil
	}
	return one(KindHumidity, "💧", "High humidity! Take breaks in cool areas and stay hydrated", SeverityInfo)
}

func visibilityRule(snap *weather.Snapshot) []Advisory {
	if !containsAny(category(snap), "fog", "mist", "haze") {
		return nil
	}
	return one(KindLowVisibility, "🌫️", "Low visibility! Drive carefully with headlights on", SeverityWarning)
}

func uvRule(snap *weather.Snapshot) []Advisory {
	uv := snap.Current.UVIndex
	if uv == nil || *uv <= HighUVOver {
		return nil
	}
	return one(KindUV, "🕶️", "High UV! Wear sunglasses and apply SPF 30+ sunscreen", SeverityWarning)
}

func providerAlertRule(snap *weather.Snapshot) []Advisory {
	if len(snap.Alerts) == 0 {
		return nil
	}
	out := make([]Advisory, 0, len(snap.Alerts))
	for _, alert := range snap.Alerts {
		out = append(out, Advisory{
			Kind:     KindProviderAlert,
			Icon:     "⚠️",
			Message:  AlertMessage(alert),
			Severity: SeverityDanger,
		})
	}
	return out
}

// AlertMessage formats a provider alert as "event: description..." quoting
// at most AlertDescriptionRunes runes of the description. The ellipsis is
// always appended.
func AlertMessage(alert weather.Alert) string {
	desc := []rune(alert.Description)
	if len(desc) > AlertDescriptionRunes {
		desc = desc[:AlertDescriptionRunes]
	}
	return alert.Event + ": " + string(desc) + "..."
}
