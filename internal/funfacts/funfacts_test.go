package funfacts_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherwise/weatherwise/internal/funfacts"
	"github.com/weatherwise/weatherwise/internal/weather"
)

// draws replays a fixed sequence of random values.
type draws struct {
	values []float64
	i      int
}

func (d *draws) Float64() float64 {
	v := d.values[d.i%len(d.values)]
	d.i++
	return v
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 9, 0, 0, 0, time.UTC) }
}

func TestStory(t *testing.T) {
	tests := []struct {
		name  string
		draws []float64
		want  string
	}{
		{"first", []float64{0}, "Today's rain weather is perfect for cozy indoor activities ☁️📖"},
		{"temperature", []float64{0.13}, "The temperature of 12.3°C is ideal for a refreshing walk 🚶‍♀️🌸"},
		{"percentage", []float64{0.4, 0.5}, "Fun fact: Weather like this occurs only 12% of the year! 🎯"},
		{"last", []float64{0.999}, "Today's atmospheric conditions are perfect for stargazing tonight 🌟🔭"},
		{"one is clamped", []float64{1}, "Today's atmospheric conditions are perfect for stargazing tonight 🌟🔭"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := funfacts.New(&draws{values: tt.draws}, nil)
			assert.Equal(t, tt.want, g.Story("Rain", 12.34))
		})
	}
}

func TestDidYouKnow_DayOfYear(t *testing.T) {
	tests := []struct {
		clock func() time.Time
		want  string
	}{
		{fixedClock(2024, time.January, 1), "Today is the 1st day of 2024 📅"},
		{fixedClock(2024, time.January, 2), "Today is the 2nd day of 2024 📅"},
		{fixedClock(2024, time.January, 3), "Today is the 3rd day of 2024 📅"},
		{fixedClock(2024, time.January, 11), "Today is the 11th day of 2024 📅"},
		{fixedClock(2024, time.February, 11), "Today is the 42nd day of 2024 📅"},
		{fixedClock(2023, time.December, 31), "Today is the 365th day of 2023 📅"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			g := funfacts.New(&draws{values: []float64{0}}, tt.clock)
			assert.Equal(t, tt.want, g.DidYouKnow())
		})
	}
}

func TestDidYouKnow_OtherFacts(t *testing.T) {
	g := funfacts.New(&draws{values: []float64{0.5}}, fixedClock(2024, time.May, 5))
	assert.Equal(t, "A cloud can weigh more than a million pounds! ☁️", g.DidYouKnow())
}

func TestNew_DefaultsProduceFacts(t *testing.T) {
	g := funfacts.New(nil, nil)
	assert.NotEmpty(t, g.Story("Clear", 20))
	assert.NotEmpty(t, g.DidYouKnow())
}

func TestTrivia(t *testing.T) {
	uv := 5.24
	cards := funfacts.Trivia(weather.CurrentConditions{
		Temperature:   22.5,
		FeelsLike:     24.2,
		Humidity:      65,
		WindSpeed:     3.4,
		WindDirection: 90,
		UVIndex:       &uv,
	})

	require.Len(t, cards, 4)
	assert.Equal(t, "Today's 22.5°C feels like 24.2°C", cards[0].Description)
	assert.Equal(t, "Current wind speed: 3.4 m/s E", cards[1].Description)
	assert.Equal(t, "Air moisture: 65%", cards[2].Description)
	assert.Equal(t, "UV intensity: 5.2", cards[3].Description)

	cards = funfacts.Trivia(weather.CurrentConditions{})
	assert.Equal(t, "UV intensity: N/A", cards[3].Description)
}
