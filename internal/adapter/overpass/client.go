package overpass

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

const queryTimeoutSeconds = 25

// Client implements domain.AmenityFinder using the Overpass API.
type Client struct {
	api         *upstream.Client
	endpointURL string
}

// NewClient creates an Overpass client for the given interpreter endpoint,
// e.g. https://overpass-api.de/api/interpreter.
func NewClient(api *upstream.Client, endpointURL string) *Client {
	return &Client{api: api, endpointURL: endpointURL}
}

// FindAmenities returns OSM nodes tagged with one of the amenity types within
// radiusM metres of lat,lng. Types must already be validated; they are
// interpolated into the query as a regex alternation.
func (c *Client) FindAmenities(ctx context.Context, lat, lng float64, radiusM int, types []string) ([]domain.Amenity, error) {
	query := BuildQuery(lat, lng, radiusM, types)

	var resp response
	if err := c.api.PostJSON(ctx, c.endpointURL, "text/plain", strings.NewReader(query), &resp); err != nil {
		return nil, fmt.Errorf("find amenities near %g,%g: %w", lat, lng, err)
	}

	out := make([]domain.Amenity, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		out = append(out, el.toDomain())
	}
	return out, nil
}

// BuildQuery renders the Overpass QL query for an amenity search.
func BuildQuery(lat, lng float64, radiusM int, types []string) string {
	return fmt.Sprintf(
		"[out:json][timeout:%d];\n(\n  node(around:%d,%g,%g)[amenity~\"%s\"];\n);\nout center;\n",
		queryTimeoutSeconds, radiusM, lat, lng, strings.Join(types, "|"),
	)
}

// Overpass API response types.

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// toDomain resolves the element position, preferring its own coordinates
// and falling back to the computed center for ways and relations.
func (e element) toDomain() domain.Amenity {
	lat, lng := e.Lat, e.Lon
	if e.Center != nil {
		if lat == 0 {
			lat = e.Center.Lat
		}
		if lng == 0 {
			lng = e.Center.Lon
		}
	}
	tags := e.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return domain.Amenity{Lat: lat, Lng: lng, Tags: tags}
}
