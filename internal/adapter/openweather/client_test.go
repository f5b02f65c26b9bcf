package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey           = "ow-test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string) *Client {
	api := upstream.New("openweather", 5*time.Second, observability.NewMetricsForTesting())
	return NewClient(api, testKey, baseURL+"/")
}

func TestClient_CurrentWeather_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "19.076", r.URL.Query().Get("lat"))
		assert.Equal(t, "72.8777", r.URL.Query().Get("lon"))
		assert.Equal(t, testKey, r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"weather": [{"main": "Rain", "description": "heavy intensity rain"}],
			"main": {"temp": 27.46, "feels_like": 31.04, "humidity": 89},
			"wind": {"speed": 8.75, "deg": 240},
			"rain": {"1h": 12.3}
		}`))
	}))
	defer srv.Close()

	w, err := testClient(srv.URL).CurrentWeather(context.Background(), 19.076, 72.8777)
	require.NoError(t, err)

	assert.Equal(t, 12.3, w.Rain1h)
	assert.Equal(t, 8.75, w.WindMS)
	assert.Equal(t, 27.46, w.TempC)
	assert.Equal(t, 31.04, w.FeelsLikeC)
	assert.Equal(t, 89.0, w.Humidity)
	assert.Equal(t, "heavy intensity rain", w.Description)
}

func TestClient_CurrentWeather_MissingBlocksDefaultToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"main": {"temp": 18}}`))
	}))
	defer srv.Close()

	w, err := testClient(srv.URL).CurrentWeather(context.Background(), 34.08, 74.79)
	require.NoError(t, err)

	assert.Zero(t, w.Rain1h)
	assert.Zero(t, w.WindMS)
	assert.Equal(t, 18.0, w.TempC)
	assert.Equal(t, "Unknown", w.Description)
}

func TestClient_CurrentWeather_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CurrentWeather(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "current weather at 1,2")
}
