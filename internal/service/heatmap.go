package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// HeatmapPoint is one scored sample of a bounding box.
type HeatmapPoint struct {
	Lat   float64      `json:"lat"`
	Lng   float64      `json:"lng"`
	Score float64      `json:"score"`
	Level domain.Level `json:"level"`
}

// minCachedCoverage is the share of grid points a heatmap must have scored
// before it is written to the response cache.
const minCachedCoverage = 0.9

// HeatmapConfig sizes the sampling grid and its fan-out.
type HeatmapConfig struct {
	GridSize     int
	Stride       int
	Concurrency  int
	PointTimeout time.Duration
}

// HeatmapService scores a grid of points across a bounding box.
type HeatmapService struct {
	factors domain.FactorSource
	cache   ResponseCache
	cfg     HeatmapConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHeatmapService creates a HeatmapService. cache may be nil.
func NewHeatmapService(factors domain.FactorSource, cache ResponseCache, cfg HeatmapConfig, metrics *observability.Metrics, logger *slog.Logger) *HeatmapService {
	return &HeatmapService{factors: factors, cache: cache, cfg: cfg, metrics: metrics, logger: logger}
}

// Heatmap returns the scored grid for bbox in row-major grid order. Points
// whose readings cannot be fetched in time are left out, and a grid missing
// more than a tenth of its points is returned but not cached.
func (s *HeatmapService) Heatmap(ctx context.Context, bbox domain.BoundingBox) ([]HeatmapPoint, error) {
	want := len(domain.SampleGrid(bbox, s.cfg.GridSize, s.cfg.Stride))
	complete := func(points []HeatmapPoint) bool {
		return len(points) > 0 && float64(len(points)) >= minCachedCoverage*float64(want)
	}
	return cachedJSON(ctx, s.cache, "heatmap:"+bbox.String(), s.metrics, s.logger, complete, func(ctx context.Context) ([]HeatmapPoint, error) {
		return s.compute(ctx, bbox)
	})
}

func (s *HeatmapService) compute(ctx context.Context, bbox domain.BoundingBox) ([]HeatmapPoint, error) {
	start := time.Now()
	grid := domain.SampleGrid(bbox, s.cfg.GridSize, s.cfg.Stride)
	s.logger.Info("generating heatmap", "bbox", bbox.String(), "points", len(grid))

	// One slot per grid point keeps output order independent of completion order.
	slots := make([]*HeatmapPoint, len(grid))

	var g errgroup.Group
	g.SetLimit(max(1, s.cfg.Concurrency))
	for i, c := range grid {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			slots[i] = s.scorePoint(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := make([]HeatmapPoint, 0, len(grid))
	for _, p := range slots {
		if p != nil {
			points = append(points, *p)
		}
	}

	s.metrics.HeatmapDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("generated heatmap", "points", len(points), "skipped", len(grid)-len(points))
	return points, nil
}

func (s *HeatmapService) scorePoint(ctx context.Context, c domain.Coordinate) *HeatmapPoint {
	if s.cfg.PointTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PointTimeout)
		defer cancel()
	}

	f, err := s.factors.Factors(ctx, c.Lat, c.Lng)
	if err != nil {
		s.metrics.HeatmapPointsSkipped.Inc()
		s.logger.Warn("skipping heatmap point", "lat", c.Lat, "lng", c.Lng, "error", err)
		return nil
	}

	p := domain.Score(f.Sanitized(), c.Lat, c.Lng)
	return &HeatmapPoint{Lat: c.Lat, Lng: c.Lng, Score: p.Score, Level: p.Level}
}
