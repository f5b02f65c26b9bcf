package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// RiskService scores single locations.
type RiskService struct {
	factors   domain.FactorSource
	publisher AssessmentPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewRiskService creates a RiskService. publisher may be nil.
func NewRiskService(factors domain.FactorSource, publisher AssessmentPublisher, metrics *observability.Metrics, logger *slog.Logger) *RiskService {
	return &RiskService{factors: factors, publisher: publisher, metrics: metrics, logger: logger}
}

// Assess gathers readings for the point and scores them. Any provider
// failure fails the assessment. Publishing is best effort.
func (s *RiskService) Assess(ctx context.Context, lat, lng float64) (domain.Assessment, error) {
	if err := domain.ValidateCoordinate(lat, lng); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	f, err := s.factors.Factors(ctx, lat, lng)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("assess %g,%g: %w", lat, lng, err)
	}

	a := domain.NewAssessment(f, lat, lng)
	s.metrics.RiskAssessments.WithLabelValues(string(a.Level)).Inc()
	s.logger.Info("risk calculated", "lat", lat, "lng", lng, "score", a.Score, "risk_level", a.Level)

	if s.publisher != nil {
		if err := s.publisher.PublishAssessment(ctx, a); err != nil {
			s.logger.Warn("publish assessment failed", "error", err)
		}
	}
	return a, nil
}
