package nominatim

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheName = "geocode"

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache[string, domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
// maxEntries must be positive.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) (*CachedGeocoder, error) {
	cache, err := lru.New[string, domain.GeocodingResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: %w", err)
	}
	return &CachedGeocoder{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedGeocoder) Search(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := "search:" + strings.ToLower(strings.TrimSpace(query))
	return c.lookup(key, func() (domain.GeocodingResult, error) {
		return c.inner.Search(ctx, query)
	})
}

func (c *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lng)
	return c.lookup(key, func() (domain.GeocodingResult, error) {
		return c.inner.Reverse(ctx, lat, lng)
	})
}

func (c *CachedGeocoder) lookup(key string, fetch func() (domain.GeocodingResult, error)) (domain.GeocodingResult, error) {
	if result, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(cacheName, "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues(cacheName, "miss").Inc()

	result, err := fetch()
	if err != nil {
		return result, err
	}
	// Only cache matches so transient "not found" responses can be retried.
	if result.Found() {
		c.cache.Add(key, result)
	}
	return result, nil
}
