package elevation

import (
	"context"
	"fmt"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheName = "elevation"

// CachedProvider wraps an ElevationProvider with an in-memory LRU cache.
// Ground elevation does not change, so entries never expire.
type CachedProvider struct {
	inner   domain.ElevationProvider
	cache   *lru.Cache[string, float64]
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around an elevation provider.
// maxEntries must be positive.
func NewCachedProvider(inner domain.ElevationProvider, maxEntries int, metrics *observability.Metrics) (*CachedProvider, error) {
	cache, err := lru.New[string, float64](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("elevation cache: %w", err)
	}
	return &CachedProvider{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedProvider) Elevation(ctx context.Context, lat, lng float64) (float64, error) {
	// Five decimals is roughly one metre, well under the source DEM resolution.
	key := fmt.Sprintf("%.5f,%.5f", lat, lng)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(cacheName, "hit").Inc()
		return v, nil
	}
	c.metrics.CacheLookups.WithLabelValues(cacheName, "miss").Inc()

	v, err := c.inner.Elevation(ctx, lat, lng)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, v)
	return v, nil
}
