package waqi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// ErrNoStation is returned when the feed has no usable station data.
var ErrNoStation = errors.New("waqi: no station data")

// Client implements domain.AirQualityProvider using the World Air Quality
// Index geo feed.
type Client struct {
	api     *upstream.Client
	token   string
	baseURL string
}

// NewClient creates a WAQI client. baseURL is the API root without a
// trailing slash, e.g. https://api.waqi.info.
func NewClient(api *upstream.Client, token, baseURL string) *Client {
	return &Client{api: api, token: token, baseURL: strings.TrimRight(baseURL, "/")}
}

// AirQuality returns the reading of the station nearest to lat,lng.
func (c *Client) AirQuality(ctx context.Context, lat, lng float64) (domain.AirQuality, error) {
	reqURL := fmt.Sprintf("%s/feed/geo:%g;%g/?token=%s", c.baseURL, lat, lng, url.QueryEscape(c.token))

	var resp feedResponse
	if err := c.api.GetJSON(ctx, reqURL, &resp); err != nil {
		return domain.AirQuality{}, fmt.Errorf("air quality at %g,%g: %w", lat, lng, err)
	}
	if resp.Status != "ok" || resp.Data == nil {
		return domain.AirQuality{}, fmt.Errorf("air quality at %g,%g: %w (status %q)", lat, lng, ErrNoStation, resp.Status)
	}
	return resp.Data.toDomain(), nil
}

// WAQI API response types.

type feedResponse struct {
	Status string    `json:"status"`
	Data   *feedData `json:"data"`
}

type feedData struct {
	AQI  flexNumber `json:"aqi"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	IAQI map[string]struct {
		V float64 `json:"v"`
	} `json:"iaqi"`
}

func (d *feedData) toDomain() domain.AirQuality {
	return domain.AirQuality{
		AQI:         float64(d.AQI),
		PM25:        d.IAQI["pm25"].V,
		PM10:        d.IAQI["pm10"].V,
		StationName: d.City.Name,
	}
}

// flexNumber decodes a JSON number or numeric string. Stations without a
// current reading report the AQI as "-", which decodes to 0.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = flexNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("aqi: %w", err)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(f)
	return nil
}
