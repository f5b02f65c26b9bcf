package domain

import (
	"context"
	"fmt"
)

// GeocodingResult is a place resolved by a geocoding provider.
type GeocodingResult struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"name"`
	Importance  float64 `json:"importance,omitempty"` // provider ranking, 0.0–1.0
}

// Found reports whether the provider matched anything.
func (r GeocodingResult) Found() bool {
	return r.DisplayName != ""
}

// Geocoder resolves place names to coordinates and back.
type Geocoder interface {
	// Search converts a free-text query to the best matching place.
	// A zero result with a nil error means nothing matched.
	Search(ctx context.Context, query string) (GeocodingResult, error)

	// Reverse converts coordinates to place details.
	Reverse(ctx context.Context, lat, lng float64) (GeocodingResult, error)
}

// CoordinateLabel is the fallback place name for an unnamed point.
func CoordinateLabel(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}
