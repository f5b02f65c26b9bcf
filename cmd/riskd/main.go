package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/elevation"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/gdacs"
	httpadapter "github.com/couchcryptid/disaster-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/disaster-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/nominatim"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/overpass"
	redisadapter "github.com/couchcryptid/disaster-risk-service/internal/adapter/redis"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/upstream"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/waqi"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/couchcryptid/disaster-risk-service/internal/pipeline"
	"github.com/couchcryptid/disaster-risk-service/internal/service"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
)

// Alert IDs remembered by the in-process deduper when Redis is not configured.
const memoryDedupEntries = 10_000

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Upstream providers. Keyed providers stay nil interfaces when their key
	// is missing so the services can report them as not configured.
	var weather domain.WeatherProvider
	if cfg.OpenWeatherAPIKey != "" {
		api := upstream.New("openweather", cfg.UpstreamTimeout, metrics, upstream.WithRateLimit(cfg.OpenWeatherRPS))
		weather = openweather.NewClient(api, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	} else {
		logger.Warn("OPENWEATHER_API_KEY not set, risk and temperature endpoints will fail")
	}

	var airQuality domain.AirQualityProvider
	if cfg.AQICNToken != "" {
		airQuality = waqi.NewClient(upstream.New("waqi", cfg.UpstreamTimeout, metrics), cfg.AQICNToken, cfg.WAQIBaseURL)
	} else {
		logger.Warn("AQICN_API_TOKEN not set, pollution heatmap will fail")
	}

	elevationLookup, err := elevation.NewCachedProvider(
		elevation.NewClient(upstream.New("open_elevation", cfg.UpstreamTimeout, metrics), cfg.OpenElevationURL),
		cfg.ElevationCacheSize, metrics,
	)
	if err != nil {
		logger.Error("failed to create elevation cache", "error", err)
		os.Exit(1)
	}
	var heatmapElevation domain.ElevationProvider = elevationLookup
	if cfg.HeatmapElevation == config.ElevationMock {
		heatmapElevation = elevation.NewMockProvider(uint64(time.Now().UnixNano()))
	}
	logger.Info("heatmap elevation source", "mode", cfg.HeatmapElevation)

	alertFeed := gdacs.NewClient(upstream.New("gdacs", cfg.UpstreamTimeout, metrics), cfg.GDACSURL)
	amenities := overpass.NewClient(upstream.New("overpass", 30*time.Second, metrics), cfg.OverpassURL)

	nominatimAPI := upstream.New("nominatim", cfg.UpstreamTimeout, metrics, upstream.WithUserAgent(cfg.NominatimUserAgent))
	geocoder, err := nominatim.NewCachedGeocoder(
		nominatim.NewClient(nominatimAPI, cfg.NominatimURL, logger),
		cfg.GeocodeCacheSize, metrics,
	)
	if err != nil {
		logger.Error("failed to create geocode cache", "error", err)
		os.Exit(1)
	}

	// Optional Redis: shared response cache and alert dedup.
	var (
		responseCache service.ResponseCache
		deduper       pipeline.Deduper = pipeline.NewMemoryDeduper(memoryDedupEntries, cfg.AlertDedupTTL)
		readiness     []httpadapter.ReadinessChecker
		redisClient   *goredis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		rc := redisadapter.NewResponseCache(redisClient, cfg.CacheTTL)
		responseCache = rc
		deduper = redisadapter.NewAlertDeduper(redisClient, cfg.AlertDedupTTL)
		readiness = append(readiness, httpadapter.ReadinessFunc(rc.Ping))
		logger.Info("redis cache enabled", "ttl", cfg.CacheTTL)
	} else {
		logger.Info("redis cache disabled")
	}

	// Optional Kafka: assessment stream and scheduled alert poller.
	var (
		publisher service.AssessmentPublisher
		writer    *kafkaadapter.Writer
		poller    *pipeline.AlertPoller
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		publisher = writer
		poller = pipeline.NewAlertPoller(alertFeed, deduper, writer, cfg.AlertsSchedule, logger, metrics)
		readiness = append(readiness, poller)
		logger.Info("kafka publishing enabled",
			"brokers", cfg.KafkaBrokers,
			"assessment_topic", cfg.KafkaAssessmentTopic,
			"alert_topic", cfg.KafkaAlertTopic,
			"schedule", cfg.AlertsSchedule,
		)
	} else {
		logger.Info("kafka publishing disabled")
	}

	api := httpadapter.API{
		Risk: service.NewRiskService(
			service.NewFactorCollector(weather, elevationLookup), publisher, metrics, logger,
		),
		Heatmap: service.NewHeatmapService(
			service.NewFactorCollector(weather, heatmapElevation), responseCache,
			service.HeatmapConfig{
				GridSize:     cfg.HeatmapGridSize,
				Stride:       cfg.HeatmapStride,
				Concurrency:  cfg.HeatmapConcurrency,
				PointTimeout: cfg.UpstreamTimeout,
			},
			metrics, logger,
		),
		India:   service.NewIndiaHeatmapService(weather, airQuality, responseCache, metrics, logger),
		Nearby:  service.NewNearbyService(amenities, logger),
		Alerts:  service.NewAlertService(alertFeed, responseCache, metrics, logger),
		Geocode: service.NewGeocodeService(geocoder),
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, api, httpadapter.AllReady(readiness...), logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start alert poller.
	if poller != nil {
		go func() {
			if err := poller.Run(ctx); err != nil {
				logger.Error("alert poller error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
