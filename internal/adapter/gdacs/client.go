package gdacs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// Client implements domain.AlertSource using the GDACS event list API.
type Client struct {
	api     *upstream.Client
	feedURL string
}

// NewClient creates a GDACS client for the given event list URL, e.g.
// https://www.gdacs.org/gdacsapi/api/events/geteventlist/SEARCH.
func NewClient(api *upstream.Client, feedURL string) *Client {
	return &Client{api: api, feedURL: feedURL}
}

// FetchAlerts returns every event in the feed, worldwide and unfiltered.
func (c *Client) FetchAlerts(ctx context.Context) ([]domain.AlertFeature, error) {
	var fc featureCollection
	if err := c.api.GetJSON(ctx, c.feedURL, &fc); err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}

	out := make([]domain.AlertFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.toDomain())
	}
	return out, nil
}

// GDACS GeoJSON response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   *geometry  `json:"geometry"`
	Properties properties `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type properties struct {
	EventID     flexString `json:"eventid"`
	Name        string     `json:"name"`
	EventType   string     `json:"eventtype"`
	AlertLevel  string     `json:"alertlevel"`
	FromDate    string     `json:"fromdate"`
	Country     string     `json:"country"`
	Description string     `json:"description"`
}

func (f feature) toDomain() domain.AlertFeature {
	return domain.AlertFeature{
		EventID:     string(f.Properties.EventID),
		Name:        f.Properties.Name,
		EventType:   f.Properties.EventType,
		AlertLevel:  f.Properties.AlertLevel,
		FromDate:    f.Properties.FromDate,
		Country:     f.Properties.Country,
		Description: f.Properties.Description,
		Coordinates: f.Geometry.point(),
	}
}

// point returns the coordinates of a point geometry. Polygons and missing
// geometries yield nil.
func (g *geometry) point() []float64 {
	if g == nil || len(g.Coordinates) == 0 {
		return nil
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil
	}
	return coords
}

// flexString decodes a JSON string or number into its text form. GDACS
// reports event IDs as numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("eventid: %w", err)
	}
	*s = flexString(n.String())
	return nil
}
