package openweathermap

// OpenWeatherMap API response structures.

type geocodingResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type conditionItem struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type oneCallResponse struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Current struct {
		Dt        int64           `json:"dt"`
		Sunrise   int64           `json:"sunrise"`
		Sunset    int64           `json:"sunset"`
		Temp      float64         `json:"temp"`
		FeelsLike float64         `json:"feels_like"`
		Humidity  float64         `json:"humidity"`
		UVI       *float64        `json:"uvi"`
		WindSpeed float64         `json:"wind_speed"`
		WindDeg   float64         `json:"wind_deg"`
		Weather   []conditionItem `json:"weather"`
	} `json:"current"`
	Hourly []struct {
		Dt      int64           `json:"dt"`
		Temp    float64         `json:"temp"`
		Pop     float64         `json:"pop"` // Probability of precipitation
		Weather []conditionItem `json:"weather"`
	} `json:"hourly"`
	Daily []struct {
		Dt      int64 `json:"dt"`
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
		Temp    struct {
			Day   float64 `json:"day"`
			Night float64 `json:"night"`
			Min   float64 `json:"min"`
			Max   float64 `json:"max"`
		} `json:"temp"`
		Humidity  float64         `json:"humidity"`
		WindSpeed float64         `json:"wind_speed"`
		Pop       float64         `json:"pop"`
		Weather   []conditionItem `json:"weather"`
	} `json:"daily"`
	Alerts []struct {
		SenderName  string   `json:"sender_name"`
		Event       string   `json:"event"`
		Start       int64    `json:"start"`
		End         int64    `json:"end"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	} `json:"alerts"`
}

type timeMachinePoint struct {
	Dt      int64           `json:"dt"`
	Temp    *float64        `json:"temp"`
	Weather []conditionItem `json:"weather"`
}

type timeMachineResponse struct {
	Lat     float64            `json:"lat"`
	Lon     float64            `json:"lon"`
	Data    []timeMachinePoint `json:"data"`
	Current *timeMachinePoint  `json:"current"`
}
