package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

// --- fakes ---

type factorFunc func(ctx context.Context, lat, lng float64) (domain.RiskFactors, error)

func (f factorFunc) Factors(ctx context.Context, lat, lng float64) (domain.RiskFactors, error) {
	return f(ctx, lat, lng)
}

type weatherFunc func(ctx context.Context, lat, lng float64) (domain.Weather, error)

func (f weatherFunc) CurrentWeather(ctx context.Context, lat, lng float64) (domain.Weather, error) {
	return f(ctx, lat, lng)
}

type elevationFunc func(ctx context.Context, lat, lng float64) (float64, error)

func (f elevationFunc) Elevation(ctx context.Context, lat, lng float64) (float64, error) {
	return f(ctx, lat, lng)
}

type airQualityFunc func(ctx context.Context, lat, lng float64) (domain.AirQuality, error)

func (f airQualityFunc) AirQuality(ctx context.Context, lat, lng float64) (domain.AirQuality, error) {
	return f(ctx, lat, lng)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.entries[key]
	return b, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

type recordingPublisher struct {
	published []domain.Assessment
	err       error
}

func (p *recordingPublisher) PublishAssessment(_ context.Context, a domain.Assessment) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, a)
	return nil
}

type fakeFinder struct {
	amenities []domain.Amenity
	err       error
	gotTypes  []string
	gotRadius int
}

func (f *fakeFinder) FindAmenities(_ context.Context, _, _ float64, radiusM int, types []string) ([]domain.Amenity, error) {
	f.gotTypes = types
	f.gotRadius = radiusM
	return f.amenities, f.err
}

type fakeAlertSource struct {
	features []domain.AlertFeature
	err      error
	calls    int
}

func (f *fakeAlertSource) FetchAlerts(_ context.Context) ([]domain.AlertFeature, error) {
	f.calls++
	return f.features, f.err
}

type fakeGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (g *fakeGeocoder) Search(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return g.result, g.err
}

func (g *fakeGeocoder) Reverse(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return g.result, g.err
}
