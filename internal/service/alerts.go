package service

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// AlertService lists active disaster alerts inside India.
type AlertService struct {
	source  domain.AlertSource
	cache   ResponseCache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewAlertService creates an AlertService. cache may be nil.
func NewAlertService(source domain.AlertSource, cache ResponseCache, metrics *observability.Metrics, logger *slog.Logger) *AlertService {
	return &AlertService{source: source, cache: cache, metrics: metrics, logger: logger}
}

// Alerts returns up to MaxAlerts events located in India, in feed order.
// An empty list is not cached so a quiet feed is re-checked next request.
func (s *AlertService) Alerts(ctx context.Context) ([]domain.DisasterAlert, error) {
	return cachedJSON(ctx, s.cache, "alerts", s.metrics, s.logger, nonEmpty[domain.DisasterAlert], s.fetch)
}

func (s *AlertService) fetch(ctx context.Context) ([]domain.DisasterAlert, error) {
	features, err := s.source.FetchAlerts(ctx)
	if err != nil {
		return nil, err
	}
	alerts := domain.FilterIndiaAlerts(features, domain.Now(), domain.MaxAlerts)
	s.logger.Info("found alerts", "count", len(alerts), "feed_size", len(features))
	return alerts, nil
}
