package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Kind selects the India heatmap layer.
type Kind string

const (
	KindTemperature Kind = "temperature"
	KindPollution   Kind = "pollution"
)

// ParseKind validates a heatmap layer name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindTemperature, KindPollution:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidKind, s)
	}
}

// TemperatureRow is the current weather at a state's representative point.
type TemperatureRow struct {
	domain.State
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Weather     string  `json:"weather"`
	FeelsLike   float64 `json:"feelsLike"`
}

// PollutionRow is the nearest station's air quality for a state.
type PollutionRow struct {
	domain.State
	AQI         float64 `json:"aqi"`
	Category    string  `json:"category"`
	Color       string  `json:"color"`
	PM25        float64 `json:"pm25"`
	PM10        float64 `json:"pm10"`
	StationName string  `json:"stationName"`
}

// IndiaHeatmap is the state-level layer returned to the dashboard. Data holds
// []TemperatureRow or []PollutionRow depending on Type.
type IndiaHeatmap struct {
	Data  any  `json:"data"`
	Type  Kind `json:"type"`
	Count int  `json:"count"`
}

// IndiaHeatmapService queries every state and union territory in parallel.
type IndiaHeatmapService struct {
	weather    domain.WeatherProvider
	airQuality domain.AirQualityProvider
	cache      ResponseCache
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewIndiaHeatmapService creates the service. A nil provider marks its layer
// as not configured; cache may be nil.
func NewIndiaHeatmapService(weather domain.WeatherProvider, airQuality domain.AirQualityProvider, cache ResponseCache, metrics *observability.Metrics, logger *slog.Logger) *IndiaHeatmapService {
	return &IndiaHeatmapService{weather: weather, airQuality: airQuality, cache: cache, metrics: metrics, logger: logger}
}

// IndiaHeatmap returns the layer for kind. States whose query fails are
// dropped; if all of them fail the call returns ErrNoData.
func (s *IndiaHeatmapService) IndiaHeatmap(ctx context.Context, kind Kind) (IndiaHeatmap, error) {
	switch kind {
	case KindTemperature:
		if s.weather == nil {
			return IndiaHeatmap{}, fmt.Errorf("temperature: %w", ErrProviderNotConfigured)
		}
		rows, err := cachedJSON(ctx, s.cache, "india:"+string(kind), s.metrics, s.logger, nonEmpty, s.temperature)
		if err != nil {
			return IndiaHeatmap{}, err
		}
		return IndiaHeatmap{Data: rows, Type: kind, Count: len(rows)}, nil

	case KindPollution:
		if s.airQuality == nil {
			return IndiaHeatmap{}, fmt.Errorf("air quality: %w", ErrProviderNotConfigured)
		}
		rows, err := cachedJSON(ctx, s.cache, "india:"+string(kind), s.metrics, s.logger, nonEmpty, s.pollution)
		if err != nil {
			return IndiaHeatmap{}, err
		}
		return IndiaHeatmap{Data: rows, Type: kind, Count: len(rows)}, nil

	default:
		return IndiaHeatmap{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrInvalidKind, kind)
	}
}

func (s *IndiaHeatmapService) temperature(ctx context.Context) ([]TemperatureRow, error) {
	return fanOutStates(ctx, s, KindTemperature, func(ctx context.Context, st domain.State) (TemperatureRow, error) {
		w, err := s.weather.CurrentWeather(ctx, st.Lat, st.Lng)
		if err != nil {
			return TemperatureRow{}, err
		}
		return TemperatureRow{
			State:       st,
			Temperature: domain.Round(w.TempC, 1),
			Humidity:    w.Humidity,
			Weather:     w.Description,
			FeelsLike:   domain.Round(w.FeelsLikeC, 1),
		}, nil
	})
}

func (s *IndiaHeatmapService) pollution(ctx context.Context) ([]PollutionRow, error) {
	return fanOutStates(ctx, s, KindPollution, func(ctx context.Context, st domain.State) (PollutionRow, error) {
		aq, err := s.airQuality.AirQuality(ctx, st.Lat, st.Lng)
		if err != nil {
			return PollutionRow{}, err
		}
		category, color := domain.CategorizeAQI(aq.AQI)
		station := aq.StationName
		if station == "" {
			station = st.Capital
		}
		return PollutionRow{
			State:       st,
			AQI:         aq.AQI,
			Category:    category,
			Color:       color,
			PM25:        aq.PM25,
			PM10:        aq.PM10,
			StationName: station,
		}, nil
	})
}

// fanOutStates runs fetch for every state concurrently and keeps the
// successes in table order.
func fanOutStates[R any](ctx context.Context, s *IndiaHeatmapService, kind Kind, fetch func(context.Context, domain.State) (R, error)) ([]R, error) {
	states := domain.IndianStates()
	s.logger.Info("fetching india heatmap", "type", kind, "states", len(states))

	type slot struct {
		row R
		ok  bool
	}
	slots := make([]slot, len(states))

	var g errgroup.Group
	for i, st := range states {
		g.Go(func() error {
			row, err := fetch(ctx, st)
			if err != nil {
				s.metrics.StatesSkipped.WithLabelValues(string(kind)).Inc()
				s.logger.Warn("skipping state", "type", kind, "state", st.Name, "error", err)
				return nil
			}
			slots[i] = slot{row: row, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]R, 0, len(states))
	for _, sl := range slots {
		if sl.ok {
			rows = append(rows, sl.row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", kind, ErrNoData)
	}
	s.logger.Info("fetched india heatmap", "type", kind, "count", len(rows))
	return rows, nil
}
