package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Nearby ---

func TestNearbyService_Nearby(t *testing.T) {
	finder := &fakeFinder{amenities: []domain.Amenity{
		{Lat: 28.70, Lng: 77.10, Tags: map[string]string{"amenity": "hospital", "name": "Far"}},
		{Lat: 28.62, Lng: 77.21, Tags: map[string]string{"amenity": "police", "name": "Near"}},
	}}
	svc := service.NewNearbyService(finder, discardLogger())

	services, err := svc.Nearby(context.Background(), 28.6139, 77.209, []string{"hospital", "police"})
	require.NoError(t, err)

	require.Len(t, services, 2)
	assert.Equal(t, "Near", services[0].Name)
	assert.Equal(t, 1, services[0].ID)
	assert.Equal(t, domain.NearbyRadiusM, finder.gotRadius)
	assert.Equal(t, []string{"hospital", "police"}, finder.gotTypes)
}

func TestNearbyService_DefaultTypes(t *testing.T) {
	finder := &fakeFinder{}
	svc := service.NewNearbyService(finder, discardLogger())

	services, err := svc.Nearby(context.Background(), 28.6, 77.2, nil)
	require.NoError(t, err)
	assert.Empty(t, services)
	assert.Equal(t, domain.DefaultAmenityTypes, finder.gotTypes)
}

func TestNearbyService_RejectsUnsafeTypes(t *testing.T) {
	finder := &fakeFinder{}
	svc := service.NewNearbyService(finder, discardLogger())

	_, err := svc.Nearby(context.Background(), 28.6, 77.2, []string{`hospital"];out;`})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Nil(t, finder.gotTypes, "finder must not be called")
}

func TestNearbyService_UpstreamError(t *testing.T) {
	svc := service.NewNearbyService(&fakeFinder{err: errors.New("overpass busy")}, discardLogger())

	_, err := svc.Nearby(context.Background(), 28.6, 77.2, []string{"hospital"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrInvalidInput)
}

// --- Alerts ---

func TestAlertService_Alerts(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	source := &fakeAlertSource{features: []domain.AlertFeature{
		{EventID: "eq-1", Name: "Earthquake", Coordinates: []float64{139.7, 35.6}}, // Tokyo
		{Name: "Flood in Assam", EventType: "FL", Coordinates: []float64{92.9, 26.2}},
	}}
	svc := service.NewAlertService(source, nil, newTestMetrics(), discardLogger())

	alerts, err := svc.Alerts(context.Background())
	require.NoError(t, err)

	require.Len(t, alerts, 1)
	assert.Equal(t, "alert-0", alerts[0].ID)
	assert.Equal(t, "Flood in Assam", alerts[0].Title)
	assert.Equal(t, fixed.Format(time.RFC3339), alerts[0].Date)
}

func TestAlertService_Error(t *testing.T) {
	svc := service.NewAlertService(&fakeAlertSource{err: errors.New("gdacs down")}, nil, newTestMetrics(), discardLogger())

	_, err := svc.Alerts(context.Background())
	require.EqualError(t, err, "gdacs down")
}

func TestAlertService_EmptyListIsNotCached(t *testing.T) {
	source := &fakeAlertSource{}
	cache := newMemoryCache()
	svc := service.NewAlertService(source, cache, newTestMetrics(), discardLogger())

	for range 3 {
		alerts, err := svc.Alerts(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, alerts)
		assert.Empty(t, alerts)
	}
	assert.Equal(t, 3, source.calls)
	assert.Zero(t, cache.sets)
}

func TestAlertService_NonEmptyListIsCached(t *testing.T) {
	source := &fakeAlertSource{features: []domain.AlertFeature{
		{EventID: "fl-1", Name: "Flood in Assam", EventType: "FL", Coordinates: []float64{92.9, 26.2}},
	}}
	cache := newMemoryCache()
	svc := service.NewAlertService(source, cache, newTestMetrics(), discardLogger())

	for range 3 {
		alerts, err := svc.Alerts(context.Background())
		require.NoError(t, err)
		require.Len(t, alerts, 1)
	}
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, cache.sets)
}

// --- Geocode ---

func TestGeocodeService_Search(t *testing.T) {
	want := domain.GeocodingResult{Lat: 26.18, Lng: 91.75, DisplayName: "Guwahati, Assam, India"}
	svc := service.NewGeocodeService(&fakeGeocoder{result: want})

	got, err := svc.Search(context.Background(), " Guwahati ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGeocodeService_Search_NotFound(t *testing.T) {
	svc := service.NewGeocodeService(&fakeGeocoder{})

	_, err := svc.Search(context.Background(), "Atlantis")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestGeocodeService_Search_Empty(t *testing.T) {
	svc := service.NewGeocodeService(&fakeGeocoder{})

	_, err := svc.Search(context.Background(), "   ")
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestGeocodeService_Reverse(t *testing.T) {
	svc := service.NewGeocodeService(&fakeGeocoder{result: domain.GeocodingResult{Lat: 19.08, Lng: 72.88, DisplayName: "Mumbai"}})

	got, err := svc.Reverse(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.DisplayName)
	assert.Equal(t, 19.076, got.Lat, "requested coordinates are kept")
	assert.Equal(t, 72.8777, got.Lng)
}

func TestGeocodeService_Reverse_FallbackLabel(t *testing.T) {
	svc := service.NewGeocodeService(&fakeGeocoder{})

	got, err := svc.Reverse(context.Background(), 10.123456, 65.5)
	require.NoError(t, err)
	assert.Equal(t, "10.1235, 65.5000", got.DisplayName)
}

func TestGeocodeService_Reverse_Error(t *testing.T) {
	svc := service.NewGeocodeService(&fakeGeocoder{err: errors.New("nominatim 503")})

	_, err := svc.Reverse(context.Background(), 1, 2)
	require.Error(t, err)
}
