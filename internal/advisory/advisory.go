// Package advisory derives human-facing safety and comfort advisories from a
// weather snapshot.
//
// Rules are evaluated in a fixed declared order and are independent of one
// another: every rule runs, and the output is the concatenation of what each
// rule emitted. The resulting list is in rule order, not severity order; use
// SortBySeverity when a severity ordering is wanted.
package advisory

import (
	"slices"
)

// Severity grades an advisory.
type Severity string

// Severity levels.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// rank orders severities for SortBySeverity; higher is more urgent.
func (s Severity) rank() int {
	switch s {
	case SeverityDanger:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Kind identifies which rule produced an advisory.
type Kind string

// Advisory kinds, one per rule outcome.
const (
	KindRain                Kind = "rain"
	KindThunderstormIndoors Kind = "thunderstorm-indoors"
	KindThunderstormDriving Kind = "thunderstorm-driving"
	KindSnow                Kind = "snow"
	KindExtremeCold         Kind = "extreme-cold"
	KindChilly              Kind = "chilly"
	KindExtremeHeat         Kind = "extreme-heat"
	KindHot                 Kind = "hot"
	KindWind                Kind = "wind"
	KindHumidity            Kind = "humidity"
	KindLowVisibility       Kind = "low-visibility"
	KindUV                  Kind = "uv"
	KindProviderAlert       Kind = "provider-alert"
	KindAllClear            Kind = "all-clear"
)

// Advisory is a single derived recommendation.
type Advisory struct {
	Kind     Kind     `json:"kind"`
	Icon     string   `json:"icon"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// AllClear is emitted when no rule fires.
var AllClear = Advisory{
	Kind:     KindAllClear,
	Icon:     "✅",
	Message:  "No weather concerns. Enjoy your day!",
	Severity: SeverityInfo,
}

// SortBySeverity returns a copy of advisories ordered danger, warning, info.
// Advisories of equal severity keep their rule order.
func SortBySeverity(advisories []Advisory) []Advisory {
	sorted := slices.Clone(advisories)
	slices.SortStableFunc(sorted, func(a, b Advisory) int {
		return b.Severity.rank() - a.Severity.rank()
	})
	return sorted
}

// Highest returns the most urgent severity present, or SeverityInfo for an
// empty list.
func Highest(advisories []Advisory) Severity {
	highest := SeverityInfo
	for _, a := range advisories {
		if a.Severity.rank() > highest.rank() {
			highest = a.Severity
		}
	}
	return highest
}
