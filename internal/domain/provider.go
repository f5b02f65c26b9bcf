package domain

import "context"

// Weather is the subset of current conditions the dashboard uses.
type Weather struct {
	Rain1h      float64 // mm in the last hour; 0 when not raining
	WindMS      float64
	TempC       float64
	FeelsLikeC  float64
	Humidity    float64
	Description string
}

// WeatherProvider returns current conditions at a point.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lng float64) (Weather, error)
}

// ElevationProvider returns ground elevation in metres at a point.
type ElevationProvider interface {
	Elevation(ctx context.Context, lat, lng float64) (float64, error)
}

// AirQualityProvider returns the nearest station's air quality reading.
type AirQualityProvider interface {
	AirQuality(ctx context.Context, lat, lng float64) (AirQuality, error)
}

// AlertSource lists current disaster events worldwide.
type AlertSource interface {
	FetchAlerts(ctx context.Context) ([]AlertFeature, error)
}

// AmenityFinder finds OpenStreetMap amenities of the given types around a point.
type AmenityFinder interface {
	FindAmenities(ctx context.Context, lat, lng float64, radiusM int, types []string) ([]Amenity, error)
}

// FactorSource gathers the risk readings for a point. Implementations must
// return within a bounded time; batch callers skip points that fail.
type FactorSource interface {
	Factors(ctx context.Context, lat, lng float64) (RiskFactors, error)
}
