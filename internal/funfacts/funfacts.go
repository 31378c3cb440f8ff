// Package funfacts generates the light-hearted weather story and trivia lines
// shown alongside a report.
package funfacts

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/weatherwise/weatherwise/internal/weather"
)

// Random picks facts. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Generator draws story and trivia lines from a random source.
type Generator struct {
	random Random
	now    func() time.Time
}

// New creates a Generator. A nil random uses a time-seeded source and a nil
// clock uses time.Now.
func New(random Random, now func() time.Time) *Generator {
	if random == nil {
		seed := uint64(time.Now().UnixNano())
		random = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{random: random, now: now}
}

func (g *Generator) pick(n int) int {
	i := int(g.random.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Story returns one weather story line for the primary condition and the
// current temperature.
func (g *Generator) Story(condition string, temp float64) string {
	c := strings.ToLower(condition)
	stories := []func() string{
		func() string { return fmt.Sprintf("Today's %s weather is perfect for cozy indoor activities ☁️📖", c) },
		func() string { return fmt.Sprintf("The temperature of %.1f°C is ideal for a refreshing walk 🚶‍♀️🌸", temp) },
		func() string {
			return fmt.Sprintf("This %s day reminds us that every weather brings its own beauty 🌈✨", c)
		},
		func() string {
			pct := int(g.random.Float64()*15 + 5)
			return fmt.Sprintf("Fun fact: Weather like this occurs only %d%% of the year! 🎯", pct)
		},
		func() string {
			return fmt.Sprintf("Perfect %s weather for making memories and sipping hot cocoa ☕️💙", c)
		},
		func() string { return "Nature's way of saying 'slow down and enjoy the moment' 🌿🧘‍♀️" },
		func() string { return "This weather pattern creates the most stunning cloud formations 🌤️🎨" },
		func() string { return "Today's atmospheric conditions are perfect for stargazing tonight 🌟🔭" },
	}
	return stories[g.pick(len(stories))]()
}

// DidYouKnow returns one general weather fact.
func (g *Generator) DidYouKnow() string {
	today := g.now()
	facts := []string{
		fmt.Sprintf("Today is the %s day of %d 📅", ordinal(today.YearDay()), today.Year()),
		"Weather patterns can affect our mood and energy levels 🧠",
		"The atmosphere contains about 78% nitrogen and 21% oxygen 🌍",
		"A cloud can weigh more than a million pounds! ☁️",
		"Lightning strikes the Earth about 100 times per second ⚡",
		"Rainbows appear when sunlight and rain occur at the same time 🌈",
	}
	return facts[g.pick(len(facts))]
}

// Card is a deterministic trivia card derived from current conditions.
type Card struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Detail      string `json:"detail"`
}

// Trivia returns the fixed set of trivia cards for current conditions.
func Trivia(current weather.CurrentConditions) []Card {
	uv := "N/A"
	if current.UVIndex != nil {
		uv = fmt.Sprintf("%.1f", *current.UVIndex)
	}

	return []Card{
		{
			Icon:        "🌡️",
			Title:       "Temperature Record",
			Description: fmt.Sprintf("Today's %.1f°C feels like %.1f°C", current.Temperature, current.FeelsLike),
			Detail:      `The "feels like" temperature accounts for wind chill and humidity`,
		},
		{
			Icon:        "💨",
			Title:       "Wind Power",
			Description: fmt.Sprintf("Current wind speed: %.1f m/s %s", current.WindSpeed, weather.WindDirection(current.WindDirection)),
			Detail:      "That's equivalent to a gentle breeze on the Beaufort scale",
		},
		{
			Icon:        "💧",
			Title:       "Humidity Level",
			Description: fmt.Sprintf("Air moisture: %.0f%%", current.Humidity),
			Detail:      "Optimal comfort zone is typically between 30-50% humidity",
		},
		{
			Icon:        "☀️",
			Title:       "UV Index",
			Description: "UV intensity: " + uv,
			Detail:      "UV index helps determine sun protection needs",
		},
	}
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
