package advisory

import (
	"github.com/rs/zerolog"

	"github.com/weatherwise/weatherwise/internal/weather"
)

// Engine evaluates a rule set against snapshots. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	rules  []Rule
	logger zerolog.Logger
}

// NewEngine creates an engine over DefaultRules.
func NewEngine(logger zerolog.Logger) *Engine {
	return NewEngineWithRules(DefaultRules, logger)
}

// NewEngineWithRules creates an engine over a custom rule list, evaluated in
// the given order.
func NewEngineWithRules(rules []Rule, logger zerolog.Logger) *Engine {
	return &Engine{
		rules:  rules,
		logger: logger,
	}
}

// Evaluate runs every rule against snap and concatenates their advisories
// in rule order. When nothing fires the result is exactly one AllClear
// advisory, never an empty list.
func (e *Engine) Evaluate(snap *weather.Snapshot) []Advisory {
	var out []Advisory
	for _, rule := range e.rules {
		fired := rule.Evaluate(snap)
		if len(fired) > 0 {
			e.logger.Debug().
				Str("rule", rule.Name).
				Int("advisories", len(fired)).
				Msg("advisory rule fired")
		}
		out = append(out, fired...)
	}

	if len(out) == 0 {
		return []Advisory{AllClear}
	}
	return out
}
