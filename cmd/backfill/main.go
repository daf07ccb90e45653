// Command backfill ingests the trailing BACKFILL_MONTHS of history in
// calendar-month sub-windows (the feed caps results per request) and exits.
// Writes are idempotent upserts, so re-running over an already-loaded span is
// safe.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/quakewatch/quake-data-ingest/internal/adapter/dynamo"
	kafkaadapter "github.com/quakewatch/quake-data-ingest/internal/adapter/kafka"
	"github.com/quakewatch/quake-data-ingest/internal/adapter/mapbox"
	"github.com/quakewatch/quake-data-ingest/internal/adapter/usgs"
	"github.com/quakewatch/quake-data-ingest/internal/config"
	"github.com/quakewatch/quake-data-ingest/internal/domain"
	"github.com/quakewatch/quake-data-ingest/internal/geo"
	"github.com/quakewatch/quake-data-ingest/internal/observability"
	"github.com/quakewatch/quake-data-ingest/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg).With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := dynamo.Connect(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to connect to DynamoDB", "error", err)
		os.Exit(1)
	}
	store := dynamo.NewStore(client, cfg.DynamoTable, logger)

	resolver := buildResolver(cfg, metrics, logger)
	fetcher := usgs.NewClient(cfg.USGSBaseURL, cfg.USGSTimeout, logger)

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, metrics, logger)
		defer writer.Close() //nolint:errcheck
		publisher = writer
	}

	ing := pipeline.NewIngestor(fetcher, store, publisher, resolver,
		logger, metrics, 0, cfg.SyncLookback)

	total, err := ing.RunBackfill(ctx, cfg.BackfillMonths, cfg.BackfillMinMagnitude)
	if err != nil {
		logger.Error("backfill aborted", "records_written", total, "error", err)
		os.Exit(1)
	}
	logger.Info("backfill complete",
		"months", cfg.BackfillMonths,
		"min_magnitude", cfg.BackfillMinMagnitude,
		"records_written", total,
	)
}

func buildResolver(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.GeoResolver {
	var locator geo.CountryLocator
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		locator = mapbox.NewCachedLocator(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
	}
	return geo.NewResolver(geo.DefaultTables(), locator, logger)
}
