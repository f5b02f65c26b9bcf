package service

import (
	"context"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// FactorCollector gathers risk readings from a weather and an elevation
// provider. River distance and population density have no data source yet
// and carry fixed placeholders.
// It implements domain.FactorSource.
type FactorCollector struct {
	weather   domain.WeatherProvider
	elevation domain.ElevationProvider
}

// NewFactorCollector creates a collector. A nil weather provider makes every
// call fail with ErrProviderNotConfigured.
func NewFactorCollector(weather domain.WeatherProvider, elevation domain.ElevationProvider) *FactorCollector {
	return &FactorCollector{weather: weather, elevation: elevation}
}

// Factors fetches weather and elevation concurrently.
func (c *FactorCollector) Factors(ctx context.Context, lat, lng float64) (domain.RiskFactors, error) {
	if c.weather == nil {
		return domain.RiskFactors{}, ErrProviderNotConfigured
	}

	var (
		w    domain.Weather
		elev float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		w, err = c.weather.CurrentWeather(gctx, lat, lng)
		return err
	})
	g.Go(func() error {
		var err error
		elev, err = c.elevation.Elevation(gctx, lat, lng)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RiskFactors{}, err
	}

	return domain.RiskFactors{
		Rain1h:     w.Rain1h,
		WindMS:     w.WindMS,
		ElevationM: elev,
		RiverKM:    domain.DefaultRiverKM,
		PopDensity: domain.DefaultPopDensity,
	}, nil
}
