package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// GeocodeService resolves place names for the location search box.
type GeocodeService struct {
	geocoder domain.Geocoder
}

// NewGeocodeService creates a GeocodeService.
func NewGeocodeService(geocoder domain.Geocoder) *GeocodeService {
	return &GeocodeService{geocoder: geocoder}
}

// Search returns the best match for query, or ErrNotFound.
func (s *GeocodeService) Search(ctx context.Context, query string) (domain.GeocodingResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.GeocodingResult{}, fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	r, err := s.geocoder.Search(ctx, query)
	if err != nil {
		return domain.GeocodingResult{}, err
	}
	if !r.Found() {
		return domain.GeocodingResult{}, fmt.Errorf("%q: %w", query, ErrNotFound)
	}
	return r, nil
}

// Reverse names the place at lat,lng. The result keeps the requested
// coordinates; unnamed points are labelled with them.
func (s *GeocodeService) Reverse(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	if err := domain.ValidateCoordinate(lat, lng); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r, err := s.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		return domain.GeocodingResult{}, err
	}
	if !r.Found() {
		r.DisplayName = domain.CoordinateLabel(lat, lng)
	}
	r.Lat, r.Lng = lat, lng
	return r, nil
}
