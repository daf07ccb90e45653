// Command purge deletes low-magnitude records once they reach the configured
// age: events dated exactly PURGE_AGE_DAYS ago with magnitude below
// PURGE_MIN_MAGNITUDE. Run it daily so each day's small events are trimmed
// exactly once.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/quakewatch/quake-data-ingest/internal/adapter/dynamo"
	"github.com/quakewatch/quake-data-ingest/internal/config"
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

	purger := pipeline.NewPurger(store, logger, metrics)
	deleted, err := purger.Run(ctx, cfg.PurgeAgeDays, cfg.PurgeMinMagnitude)
	if err != nil {
		logger.Error("purge failed", "deleted", deleted, "error", err)
		os.Exit(1)
	}
	logger.Info("purge complete",
		"age_days", cfg.PurgeAgeDays,
		"min_magnitude", cfg.PurgeMinMagnitude,
		"deleted", deleted,
	)
}
