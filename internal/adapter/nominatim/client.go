package nominatim

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// reverseZoom asks for city-level detail on reverse lookups.
const reverseZoom = "10"

// Client implements domain.Geocoder using the OpenStreetMap Nominatim API.
// Nominatim's usage policy requires an identifying User-Agent, which the
// upstream client must be configured with.
type Client struct {
	api     *upstream.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a Nominatim geocoding client.
func NewClient(api *upstream.Client, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Search converts a free-text place query to the best matching place.
func (c *Client) Search(ctx context.Context, query string) (domain.GeocodingResult, error) {
	params := url.Values{
		"format":         {"json"},
		"q":              {query},
		"limit":          {"1"},
		"addressdetails": {"1"},
	}

	var places []place
	if err := c.api.GetJSON(ctx, c.baseURL+"/search?"+params.Encode(), &places); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("search geocode request: %w", err)
	}
	if len(places) == 0 {
		return domain.GeocodingResult{}, nil
	}
	return places[0].toDomain(c.logger)
}

// Reverse converts coordinates to place details.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	params := url.Values{
		"format":         {"json"},
		"lat":            {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":            {strconv.FormatFloat(lng, 'f', 6, 64)},
		"zoom":           {reverseZoom},
		"addressdetails": {"1"},
	}

	var p place
	if err := c.api.GetJSON(ctx, c.baseURL+"/reverse?"+params.Encode(), &p); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	// Points in the ocean come back as 200 with an error message.
	if p.Error != "" {
		return domain.GeocodingResult{}, nil
	}
	return p.toDomain(c.logger)
}

// Nominatim API response types.

type place struct {
	Lat         string  `json:"lat"` // decimal strings
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
	Error       string  `json:"error"`
}

func (p place) toDomain(logger *slog.Logger) (domain.GeocodingResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	name := p.DisplayName
	if name == "" {
		name = domain.CoordinateLabel(lat, lng)
		logger.Debug("nominatim place without display name", "lat", lat, "lng", lng)
	}
	return domain.GeocodingResult{
		Lat:         lat,
		Lng:         lng,
		DisplayName: name,
		Importance:  p.Importance,
	}, nil
}
