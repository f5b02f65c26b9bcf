package nominatim

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	searchCalls  int
	reverseCalls int
	result       domain.GeocodingResult
	err          error
}

func (m *countingGeocoder) Search(_ context.Context, _ string) (domain.GeocodingResult, error) {
	m.searchCalls++
	return m.result, m.err
}

func (m *countingGeocoder) Reverse(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.reverseCalls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_SearchCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{Lat: 22.57, Lng: 88.36, DisplayName: "Kolkata, West Bengal, India"},
	}
	metrics := observability.NewMetricsForTesting()
	cached := mustCachedGeocoder(t, inner, 10, metrics)

	r1, err := cached.Search(context.Background(), "Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Kolkata, West Bengal, India", r1.DisplayName)

	r2, err := cached.Search(context.Background(), "  kolkata ")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 1, inner.searchCalls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("geocode", "hit")), 0)
}

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{DisplayName: "Pune, Maharashtra, India"}}
	cached := mustCachedGeocoder(t, inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Reverse(context.Background(), 18.5204, 73.8567)
	require.NoError(t, err)
	_, err = cached.Reverse(context.Background(), 18.5204, 73.8567)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reverseCalls, "should only call inner once")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{DisplayName: "Place"}}
	cached := mustCachedGeocoder(t, inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Search(context.Background(), "Patna")
	_, _ = cached.Search(context.Background(), "Ranchi")

	assert.Equal(t, 2, inner.searchCalls)
}

func TestCachedGeocoder_NotFoundIsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := mustCachedGeocoder(t, inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Search(context.Background(), "Nowhere")
	_, _ = cached.Search(context.Background(), "Nowhere")

	assert.Equal(t, 2, inner.searchCalls)
}

func TestCachedGeocoder_ErrorPropagates(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := mustCachedGeocoder(t, inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Reverse(context.Background(), 1, 2)
	require.Error(t, err)

	_, err = cached.Reverse(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Equal(t, 2, inner.reverseCalls)
}

func mustCachedGeocoder(t *testing.T, inner domain.Geocoder, size int, metrics *observability.Metrics) *CachedGeocoder {
	t.Helper()
	c, err := NewCachedGeocoder(inner, size, metrics)
	require.NoError(t, err)
	return c
}
