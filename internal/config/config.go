package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// USGS feed.
	USGSBaseURL  string
	USGSTimeout  time.Duration
	MinMagnitude float64 // feed-side minimum-magnitude filter; 0 disables

	// DynamoDB storage.
	DynamoTable string
	AWSRegion   string

	// Rolling ingestion.
	SyncInterval time.Duration
	SyncLookback time.Duration // cold-start watermark fallback
	RunOnce      bool

	// Backfill ingestion.
	BackfillMonths       int
	BackfillMinMagnitude float64

	// Retention purge.
	PurgeAgeDays      int
	PurgeMinMagnitude float64

	// Mapbox coordinate→country lookup.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka change feed (disabled unless brokers are set).
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	usgsTimeout, err := envDuration("USGS_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	syncInterval, err := envDuration("SYNC_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	syncLookback, err := envDuration("SYNC_LOOKBACK", 3*time.Hour)
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := envDuration("MAPBOX_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	minMagnitude, err := envFloat("MIN_MAGNITUDE", 0)
	if err != nil {
		return nil, err
	}
	backfillMinMagnitude, err := envFloat("BACKFILL_MIN_MAGNITUDE", 4)
	if err != nil {
		return nil, err
	}
	purgeMinMagnitude, err := envFloat("PURGE_MIN_MAGNITUDE", 4)
	if err != nil {
		return nil, err
	}

	backfillMonths, err := envInt("BACKFILL_MONTHS", 13)
	if err != nil {
		return nil, err
	}
	purgeAgeDays, err := envInt("PURGE_AGE_DAYS", 2)
	if err != nil {
		return nil, err
	}
	mapboxCacheSize, err := envInt("MAPBOX_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		USGSBaseURL:  envOrDefault("USGS_BASE_URL", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
		USGSTimeout:  usgsTimeout,
		MinMagnitude: minMagnitude,

		DynamoTable: envOrDefault("DYNAMO_TABLE", "earthquakes"),
		AWSRegion:   envOrDefault("AWS_REGION", "us-east-1"),

		SyncInterval: syncInterval,
		SyncLookback: syncLookback,
		RunOnce:      os.Getenv("RUN_ONCE") == "true",

		BackfillMonths:       backfillMonths,
		BackfillMinMagnitude: backfillMinMagnitude,

		PurgeAgeDays:      purgeAgeDays,
		PurgeMinMagnitude: purgeMinMagnitude,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "quake-events"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.USGSBaseURL == "" {
		return nil, errors.New("USGS_BASE_URL is required")
	}
	if cfg.DynamoTable == "" {
		return nil, errors.New("DYNAMO_TABLE is required")
	}
	if cfg.SyncInterval <= 0 {
		return nil, errors.New("SYNC_INTERVAL must be positive")
	}
	if cfg.SyncLookback <= 0 {
		return nil, errors.New("SYNC_LOOKBACK must be positive")
	}
	if cfg.BackfillMonths <= 0 {
		return nil, errors.New("BACKFILL_MONTHS must be positive")
	}
	if cfg.PurgeAgeDays < 0 {
		return nil, errors.New("PURGE_AGE_DAYS must not be negative")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
