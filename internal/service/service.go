// Package service implements the dashboard operations on top of the domain
// model and the upstream data providers.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

var (
	// ErrInvalidInput wraps every caller mistake: bad coordinates, unknown
	// heatmap kinds, malformed amenity types.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidKind is returned by IndiaHeatmap for kinds other than
	// temperature and pollution.
	ErrInvalidKind = errors.New(`invalid type, use "temperature" or "pollution"`)

	// ErrProviderNotConfigured is returned when the provider an operation
	// needs has no API key.
	ErrProviderNotConfigured = errors.New("provider API key not configured")

	// ErrNoData is returned when a batch query got nothing back from any
	// upstream call.
	ErrNoData = errors.New("no data received from APIs")

	// ErrNotFound is returned when a geocoding query matched nothing.
	ErrNotFound = errors.New("location not found")
)

// AssessmentPublisher forwards computed assessments downstream.
type AssessmentPublisher interface {
	PublishAssessment(ctx context.Context, a domain.Assessment) error
}

// ResponseCache stores serialized results for a fixed TTL.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const responseCacheName = "response"

// cachedJSON serves key from cache when present and otherwise computes,
// stores and returns a fresh value. Results rejected by keep are returned
// but not stored. Cache failures are logged and never fail the request.
func cachedJSON[T any](
	ctx context.Context,
	cache ResponseCache,
	key string,
	metrics *observability.Metrics,
	logger *slog.Logger,
	keep func(T) bool,
	compute func(context.Context) (T, error),
) (T, error) {
	if cache == nil {
		return compute(ctx)
	}

	if b, ok, err := cache.Get(ctx, key); err != nil {
		logger.Warn("response cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			metrics.CacheLookups.WithLabelValues(responseCacheName, "hit").Inc()
			return v, nil
		}
		logger.Warn("discarding undecodable cache entry", "key", key)
	}
	metrics.CacheLookups.WithLabelValues(responseCacheName, "miss").Inc()

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if keep != nil && !keep(v) {
		return v, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		logger.Warn("response cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := cache.Set(ctx, key, b); err != nil {
		logger.Warn("response cache write failed", "key", key, "error", err)
	}
	return v, nil
}

func nonEmpty[E any](s []E) bool { return len(s) > 0 }
