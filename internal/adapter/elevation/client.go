package elevation

import (
	"context"
	"fmt"
	"net/url"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
)

// Client implements domain.ElevationProvider using the Open-Elevation lookup API.
type Client struct {
	api       *upstream.Client
	lookupURL string
}

// NewClient creates an Open-Elevation client. lookupURL is the full lookup
// endpoint, e.g. https://api.open-elevation.com/api/v1/lookup.
func NewClient(api *upstream.Client, lookupURL string) *Client {
	return &Client{api: api, lookupURL: lookupURL}
}

// Elevation returns ground elevation in metres. An empty result set is
// reported as sea level.
func (c *Client) Elevation(ctx context.Context, lat, lng float64) (float64, error) {
	params := url.Values{"locations": {fmt.Sprintf("%g,%g", lat, lng)}}

	var resp response
	if err := c.api.GetJSON(ctx, c.lookupURL+"?"+params.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("elevation at %g,%g: %w", lat, lng, err)
	}
	if len(resp.Results) == 0 {
		return 0, nil
	}
	return resp.Results[0].Elevation, nil
}

// Open-Elevation API response types.

type response struct {
	Results []result `json:"results"`
}

type result struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}
