// Command ingest runs the rolling earthquake sync: every interval it fetches
// the feed from the stored watermark forward, normalizes the events and
// upserts them into DynamoDB. Set RUN_ONCE=true for a single cycle (cron or
// one-shot container use).
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

	"github.com/google/uuid"
	"github.com/quakewatch/quake-data-ingest/internal/adapter/dynamo"
	httpadapter "github.com/quakewatch/quake-data-ingest/internal/adapter/http"
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

	logger := observability.NewLogger(cfg)
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
	var feedWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		feedWriter = kafkaadapter.NewWriter(cfg, metrics, logger)
		publisher = feedWriter
		logger.Info("change feed enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	ing := pipeline.NewIngestor(fetcher, store, publisher, resolver,
		logger, metrics, cfg.MinMagnitude, cfg.SyncLookback)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ing, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	runSync := func() {
		runID := uuid.NewString()
		count, err := ing.RunRolling(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("sync cycle failed", "run_id", runID, "error", err)
			}
			return
		}
		logger.Info("sync cycle finished", "run_id", runID, "events_written", count)
	}

	go func() {
		defer stop()

		runSync()
		if cfg.RunOnce {
			logger.Info("run-once mode, exiting")
			return
		}

		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSync()
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if feedWriter != nil {
		if err := feedWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildResolver assembles the country/continent resolver, with coordinate
// lookup feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
func buildResolver(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.GeoResolver {
	var locator geo.CountryLocator
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		locator = mapbox.NewCachedLocator(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("coordinate lookup enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("coordinate lookup disabled")
	}
	return geo.NewResolver(geo.DefaultTables(), locator, logger)
}
