package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// NearbyService finds emergency services around a point.
type NearbyService struct {
	finder domain.AmenityFinder
	logger *slog.Logger
}

// NewNearbyService creates a NearbyService.
func NewNearbyService(finder domain.AmenityFinder, logger *slog.Logger) *NearbyService {
	return &NearbyService{finder: finder, logger: logger}
}

// Nearby returns up to MaxNearby amenities of the given types within
// NearbyRadiusM of lat,lng, nearest first.
func (s *NearbyService) Nearby(ctx context.Context, lat, lng float64, types []string) ([]domain.EmergencyService, error) {
	if err := domain.ValidateCoordinate(lat, lng); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	types, err := domain.ParseAmenityTypes(types)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.logger.Info("finding nearby services", "lat", lat, "lng", lng, "types", types)
	amenities, err := s.finder.FindAmenities(ctx, lat, lng, domain.NearbyRadiusM, types)
	if err != nil {
		return nil, err
	}

	services := domain.RankEmergencyServices(lat, lng, amenities, domain.MaxNearby)
	s.logger.Info("found nearby services", "count", len(services), "candidates", len(amenities))
	return services, nil
}
