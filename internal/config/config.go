package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Elevation modes for the heatmap path.
const (
	ElevationMock   = "mock"
	ElevationLookup = "lookup"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Upstream providers.
	OpenWeatherAPIKey  string        `env:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string        `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org/data/2.5"`
	OpenWeatherRPS     float64       `env:"OPENWEATHER_RPS" envDefault:"10"`
	OpenElevationURL   string        `env:"OPEN_ELEVATION_URL" envDefault:"https://api.open-elevation.com/api/v1/lookup"`
	AQICNToken         string        `env:"AQICN_API_TOKEN"`
	WAQIBaseURL        string        `env:"WAQI_BASE_URL" envDefault:"https://api.waqi.info"`
	GDACSURL           string        `env:"GDACS_URL" envDefault:"https://www.gdacs.org/gdacsapi/api/events/geteventlist/SEARCH"`
	OverpassURL        string        `env:"OVERPASS_URL" envDefault:"https://overpass-api.de/api/interpreter"`
	NominatimURL       string        `env:"NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent string        `env:"NOMINATIM_USER_AGENT" envDefault:"disaster-risk-service/1.0"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`

	// Heatmap sampling.
	HeatmapGridSize    int    `env:"HEATMAP_GRID_SIZE" envDefault:"20"`
	HeatmapStride      int    `env:"HEATMAP_STRIDE" envDefault:"2"`
	HeatmapConcurrency int    `env:"HEATMAP_CONCURRENCY" envDefault:"8"`
	HeatmapElevation   string `env:"HEATMAP_ELEVATION" envDefault:"mock"`
	ElevationCacheSize int    `env:"ELEVATION_CACHE_SIZE" envDefault:"5000"`
	GeocodeCacheSize   int    `env:"GEOCODE_CACHE_SIZE" envDefault:"1000"`

	// Redis response cache and alert dedup; disabled when RedisURL is empty.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Kafka publishing of assessments and alerts.
	KafkaEnabled         bool          `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers         []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaAssessmentTopic string        `env:"KAFKA_ASSESSMENT_TOPIC" envDefault:"risk-assessments"`
	KafkaAlertTopic      string        `env:"KAFKA_ALERT_TOPIC" envDefault:"disaster-alerts"`
	AlertsSchedule       string        `env:"ALERTS_SCHEDULE" envDefault:"@every 10m"`
	AlertDedupTTL        time.Duration `env:"ALERT_DEDUP_TTL" envDefault:"72h"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.KafkaBrokers = trimBrokers(cfg.KafkaBrokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for key, d := range map[string]time.Duration{
		"SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
		"UPSTREAM_TIMEOUT": c.UpstreamTimeout,
		"CACHE_TTL":        c.CacheTTL,
		"ALERT_DEDUP_TTL":  c.AlertDedupTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", key)
		}
	}
	for key, n := range map[string]int{
		"HEATMAP_GRID_SIZE":    c.HeatmapGridSize,
		"HEATMAP_STRIDE":       c.HeatmapStride,
		"HEATMAP_CONCURRENCY":  c.HeatmapConcurrency,
		"ELEVATION_CACHE_SIZE": c.ElevationCacheSize,
		"GEOCODE_CACHE_SIZE":   c.GeocodeCacheSize,
	} {
		if n <= 0 {
			return fmt.Errorf("invalid %s: must be positive", key)
		}
	}
	if c.OpenWeatherRPS <= 0 {
		return errors.New("invalid OPENWEATHER_RPS: must be positive")
	}

	if c.HeatmapElevation != ElevationMock && c.HeatmapElevation != ElevationLookup {
		return fmt.Errorf("HEATMAP_ELEVATION must be %q or %q", ElevationMock, ElevationLookup)
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if c.KafkaAssessmentTopic == "" || c.KafkaAlertTopic == "" {
			return errors.New("KAFKA_ASSESSMENT_TOPIC and KAFKA_ALERT_TOPIC are required when KAFKA_ENABLED is true")
		}
	}
	return nil
}

func trimBrokers(in []string) []string {
	var brokers []string
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
