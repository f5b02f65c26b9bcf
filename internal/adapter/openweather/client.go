package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// Client implements domain.WeatherProvider using the OpenWeather
// current-weather API.
type Client struct {
	api     *upstream.Client
	apiKey  string
	baseURL string
}

// NewClient creates an OpenWeather client. baseURL is the API root, e.g.
// https://api.openweathermap.org/data/2.5.
func NewClient(api *upstream.Client, apiKey, baseURL string) *Client {
	return &Client{
		api:     api,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CurrentWeather returns metric current conditions at a point. Readings the
// API omits are reported as zero.
func (c *Client) CurrentWeather(ctx context.Context, lat, lng float64) (domain.Weather, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lng, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var resp response
	if err := c.api.GetJSON(ctx, c.baseURL+"/weather?"+params.Encode(), &resp); err != nil {
		return domain.Weather{}, fmt.Errorf("current weather at %g,%g: %w", lat, lng, err)
	}
	return resp.toDomain(), nil
}

// OpenWeather API response types.

type response struct {
	Main    mainBlock      `json:"main"`
	Wind    windBlock      `json:"wind"`
	Rain    *precipitation `json:"rain"` // absent when it is not raining
	Weather []condition    `json:"weather"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  float64 `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
}

type precipitation struct {
	OneHour float64 `json:"1h"`
}

type condition struct {
	Description string `json:"description"`
}

func (r response) toDomain() domain.Weather {
	w := domain.Weather{
		WindMS:      r.Wind.Speed,
		TempC:       r.Main.Temp,
		FeelsLikeC:  r.Main.FeelsLike,
		Humidity:    r.Main.Humidity,
		Description: "Unknown",
	}
	if r.Rain != nil {
		w.Rain1h = r.Rain.OneHour
	}
	if len(r.Weather) > 0 && r.Weather[0].Description != "" {
		w.Description = r.Weather[0].Description
	}
	return w
}
