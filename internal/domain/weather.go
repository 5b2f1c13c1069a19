package domain

type WeatherReport struct {
	Temperature     float64  `json:"temperature"`
	Description     string   `json:"description"`
	Humidity        int      `json:"humidity"`
	WindSpeed       float64  `json:"windSpeed"`
	Recommendations []string `json:"recommendations,omitempty"`
}
