// Package pipeline orchestrates the fetch-normalize-write cycle: pull raw
// events from the feed for a time window, normalize and enrich them, drop the
// incomplete ones, upsert the rest into storage and optionally publish them
// to the change feed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/quakewatch/quake-data-ingest/internal/domain"
	"github.com/quakewatch/quake-data-ingest/internal/observability"
)

// Fetcher pulls raw events for a time window from the upstream feed.
type Fetcher interface {
	Fetch(ctx context.Context, start, end time.Time, minMagnitude float64) ([]domain.RawEvent, error)
}

// EventStore persists normalized events and answers the scans that the
// watermark and the purger need. Upserts are keyed by event id.
type EventStore interface {
	UpsertBatch(ctx context.Context, events []domain.QuakeEvent) error
	ScanSummaries(ctx context.Context, filter domain.EventFilter) ([]domain.EventSummary, error)
	Delete(ctx context.Context, id string) error
}

// Publisher emits stored events to the change feed.
type Publisher interface {
	PublishBatch(ctx context.Context, events []domain.QuakeEvent) error
}

// Ingestor drives ingestion runs. A nil publisher disables the change feed,
// a nil resolver disables country attribution; neither affects what gets
// stored otherwise.
type Ingestor struct {
	fetcher   Fetcher
	store     EventStore
	publisher Publisher
	resolver  domain.GeoResolver
	logger    *slog.Logger
	metrics   *observability.Metrics

	minMagnitude float64
	lookback     time.Duration

	ready atomic.Bool
}

// NewIngestor wires an ingestor. minMagnitude is the feed-side filter for
// rolling runs (0 disables), lookback is the cold-start watermark fallback.
func NewIngestor(
	fetcher Fetcher,
	store EventStore,
	publisher Publisher,
	resolver domain.GeoResolver,
	logger *slog.Logger,
	metrics *observability.Metrics,
	minMagnitude float64,
	lookback time.Duration,
) *Ingestor {
	return &Ingestor{
		fetcher:      fetcher,
		store:        store,
		publisher:    publisher,
		resolver:     resolver,
		logger:       logger,
		metrics:      metrics,
		minMagnitude: minMagnitude,
		lookback:     lookback,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (in *Ingestor) CheckReadiness(_ context.Context) error {
	if !in.ready.Load() {
		return errors.New("no sync cycle completed yet")
	}
	return nil
}

// RunRolling executes one watermark-to-now ingestion cycle and returns the
// number of events written.
func (in *Ingestor) RunRolling(ctx context.Context) (int, error) {
	start := in.NextWindowStart(ctx)
	end := clock.Now().UTC()

	in.logger.Info("rolling sync starting",
		"window_start", start,
		"window_end", end,
	)
	count, err := in.runWindow(ctx, start, end, in.minMagnitude)
	if err != nil {
		return 0, err
	}
	in.ready.Store(true)
	return count, nil
}

// RunBackfill ingests the trailing N months in calendar-month sub-windows.
// The upstream feed caps results per request, so each month is fetched and
// written independently; a failed month is skipped, not fatal. Returns the
// total number of events written.
func (in *Ingestor) RunBackfill(ctx context.Context, months int, minMagnitude float64) (int, error) {
	windows := monthlyWindows(clock.Now().UTC(), months)
	in.logger.Info("backfill starting", "months", months, "windows", len(windows))

	total := 0
	for _, w := range windows {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		count, err := in.runWindow(ctx, w.start, w.end, minMagnitude)
		if err != nil {
			in.metrics.WindowsSkipped.Inc()
			in.logger.Warn("backfill window skipped",
				"window_start", w.start,
				"window_end", w.end,
				"error", err,
			)
			continue
		}
		total += count
	}

	in.logger.Info("backfill finished", "records_written", total)
	in.ready.Store(true)
	return total, nil
}

// runWindow is one fetch-normalize-write cycle over [start, end].
func (in *Ingestor) runWindow(ctx context.Context, start, end time.Time, minMagnitude float64) (int, error) {
	in.metrics.IngestRunning.Set(1)
	defer in.metrics.IngestRunning.Set(0)
	began := clock.Now()

	raws, err := in.fetcher.Fetch(ctx, start, end, minMagnitude)
	if err != nil {
		in.metrics.FetchErrors.Inc()
		return 0, fmt.Errorf("fetching window: %w", err)
	}
	in.metrics.EventsFetched.Add(float64(len(raws)))
	in.metrics.BatchSize.Observe(float64(len(raws)))

	events := in.normalize(ctx, raws)
	if len(events) == 0 {
		in.logger.Info("window produced no storable events", "fetched", len(raws))
		return 0, nil
	}

	if err := in.store.UpsertBatch(ctx, events); err != nil {
		return 0, fmt.Errorf("upserting %d events: %w", len(events), err)
	}
	in.metrics.EventsIngested.Add(float64(len(events)))

	if in.publisher != nil {
		// The table is the source of truth; a change-feed hiccup is logged
		// but does not fail the run.
		if err := in.publisher.PublishBatch(ctx, events); err != nil {
			in.logger.Warn("change feed publish failed", "error", err, "events", len(events))
		}
	}

	in.metrics.IngestRunDuration.Observe(clock.Since(began).Seconds())
	in.logger.Info("window ingested",
		"fetched", len(raws),
		"written", len(events),
		"dropped", len(raws)-len(events),
	)
	return len(events), nil
}

// normalize parses, validates and enriches raw events. Events missing core
// fields are dropped here; everything else gets the full derivation chain.
func (in *Ingestor) normalize(ctx context.Context, raws []domain.RawEvent) []domain.QuakeEvent {
	events := make([]domain.QuakeEvent, 0, len(raws))
	for _, raw := range raws {
		e := domain.ParseRawEvent(raw)
		if err := domain.ValidateCore(e); err != nil {
			in.metrics.EventsDropped.Inc()
			in.logger.Warn("dropping event", "event_id", raw.ID, "error", err)
			continue
		}
		e = domain.EnrichQuakeEvent(e)
		e = domain.EnrichWithGeo(ctx, e, in.resolver, in.logger)
		events = append(events, e)
	}
	return events
}

// window is a [start, end) fetch span.
type window struct {
	start time.Time
	end   time.Time
}

// monthlyWindows subdivides the trailing span into calendar-month windows:
// one per month start between now-months and now, the last one ending at now.
func monthlyWindows(now time.Time, months int) []window {
	spanStart := now.AddDate(0, -months, 0)

	// First month boundary at or after the span start.
	cursor := time.Date(spanStart.Year(), spanStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	if cursor.Before(spanStart) {
		cursor = cursor.AddDate(0, 1, 0)
	}

	var windows []window
	for cursor.Before(now) {
		next := cursor.AddDate(0, 1, 0)
		end := next
		if end.After(now) {
			end = now
		}
		windows = append(windows, window{start: cursor, end: end})
		cursor = next
	}
	return windows
}
