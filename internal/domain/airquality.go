package domain

// AirQuality is a station reading near a requested point.
type AirQuality struct {
	AQI         float64
	PM25        float64
	PM10        float64
	StationName string
}

type aqiBand struct {
	above    float64
	category string
	color    string
}

// Bands are checked top-down; the first band whose floor is exceeded wins.
var aqiBands = []aqiBand{
	{above: 300, category: "Hazardous", color: "#7e0023"},
	{above: 200, category: "Very Unhealthy", color: "#8f3f97"},
	{above: 150, category: "Unhealthy", color: "#ff0000"},
	{above: 100, category: "Unhealthy for Sensitive", color: "#ff7e00"},
	{above: 50, category: "Moderate", color: "#ffff00"},
}

// CategorizeAQI returns the US EPA category name and display color for an
// AQI value.
func CategorizeAQI(aqi float64) (category, color string) {
	for _, b := range aqiBands {
		if aqi > b.above {
			return b.category, b.color
		}
	}
	return "Good", "#00e400"
}
