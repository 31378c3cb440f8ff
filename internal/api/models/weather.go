package models

// WeatherQuery is the query string accepted by the weather endpoints.
type WeatherQuery struct {
	Q string `validate:"required,max=200"`
}

// Location is a resolved place.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Condition is one weather condition entry.
type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Emoji       string `json:"emoji"`
}

// CurrentConditions are the observed conditions at fetch time. Units are
// metric.
type CurrentConditions struct {
	Temperature   float64     `json:"temperature"`
	FeelsLike     float64     `json:"feelsLike"`
	Humidity      float64     `json:"humidity"`
	WindSpeed     float64     `json:"windSpeed"`
	WindDirection string      `json:"windDirection"`
	Conditions    []Condition `json:"conditions"`
	Sunrise       *Timestamp  `json:"sunrise,omitempty"`
	Sunset        *Timestamp  `json:"sunset,omitempty"`
	UVIndex       *float64    `json:"uvIndex,omitempty"`
}

// HourlyForecast is one hourly entry.
type HourlyForecast struct {
	Time        Timestamp   `json:"time"`
	Temperature float64     `json:"temperature"`
	Conditions  []Condition `json:"conditions"`
	PrecipProb  float64     `json:"precipProbability"`
}

// DailyTemperature holds a day's temperature points.
type DailyTemperature struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// DailyForecast is one daily entry.
type DailyForecast struct {
	Time        Timestamp        `json:"time"`
	Temperature DailyTemperature `json:"temperature"`
	Conditions  []Condition      `json:"conditions"`
	PrecipProb  float64          `json:"precipProbability"`
	Humidity    float64          `json:"humidity"`
	WindSpeed   float64          `json:"windSpeed"`
	Sunrise     *Timestamp       `json:"sunrise,omitempty"`
	Sunset      *Timestamp       `json:"sunset,omitempty"`
}

// Alert is a provider-issued weather alert with its hazard classification.
type Alert struct {
	Sender        string    `json:"sender"`
	Event         string    `json:"event"`
	Start         Timestamp `json:"start"`
	End           Timestamp `json:"end"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags"`
	Icon          string    `json:"icon"`
	Level         string    `json:"level"`
	DurationHours int       `json:"durationHours"`
}

// HistoricalSample is the temperature on the same calendar day in a past year.
type HistoricalSample struct {
	Label       string  `json:"label"`
	Year        int     `json:"year"`
	YearsAgo    int     `json:"yearsAgo"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}

// Advisory is one human-readable recommendation.
type Advisory struct {
	Kind     string `json:"kind"`
	Icon     string `json:"icon"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// TriviaCard is one fun-fact card about current conditions.
type TriviaCard struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Detail      string `json:"detail"`
}

// WeatherReport is the body of GET /v1/weather.
type WeatherReport struct {
	Source     string             `json:"source"`
	FetchedAt  Timestamp          `json:"fetchedAt"`
	Location   Location           `json:"location"`
	Current    CurrentConditions  `json:"current"`
	Hourly     []HourlyForecast   `json:"hourly"`
	Daily      []DailyForecast    `json:"daily"`
	Alerts     []Alert            `json:"alerts"`
	Historical []HistoricalSample `json:"historical"`
	Advisories []Advisory         `json:"advisories"`
	Story      string             `json:"story"`
	DidYouKnow string             `json:"didYouKnow"`
	Trivia     []TriviaCard       `json:"trivia"`
}

// AdvisoryReport is the body of GET /v1/weather/advisories.
type AdvisoryReport struct {
	Location        Location   `json:"location"`
	HighestSeverity string     `json:"highestSeverity"`
	Advisories      []Advisory `json:"advisories"`
}
