package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quakewatch/quake-data-ingest/internal/domain"
	"github.com/quakewatch/quake-data-ingest/internal/observability"
)

// Purger removes low-magnitude records once they reach a fixed age. The big
// quakes stay forever; the daily noise of small ones gets trimmed to keep the
// table lean.
type Purger struct {
	store   EventStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPurger creates a retention purger over the given store.
func NewPurger(store EventStore, logger *slog.Logger, metrics *observability.Metrics) *Purger {
	return &Purger{store: store, logger: logger, metrics: metrics}
}

// Run deletes every record whose event date is exactly ageDays ago and whose
// magnitude is strictly below minMagnitude, the smallest magnitude worth
// keeping. Per-item delete failures are logged and skipped so one bad item
// cannot stall retention; a failed scan fails the run. Returns the number of
// records deleted.
func (p *Purger) Run(ctx context.Context, ageDays int, minMagnitude float64) (int, error) {
	target := clock.Now().UTC().AddDate(0, 0, -ageDays)
	year, month, day := target.Year(), int(target.Month()), target.Day()

	summaries, err := p.store.ScanSummaries(ctx, domain.EventFilter{
		Year:           &year,
		Month:          &month,
		Day:            &day,
		MagnitudeBelow: &minMagnitude,
	})
	if err != nil {
		return 0, fmt.Errorf("scanning purge candidates: %w", err)
	}

	p.logger.Info("purge starting",
		"target_date", target.Format("2006-01-02"),
		"min_magnitude", minMagnitude,
		"candidates", len(summaries),
	)

	deleted := 0
	for _, s := range summaries {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		if err := p.store.Delete(ctx, s.ID); err != nil {
			p.metrics.PurgeDeleteErrors.Inc()
			p.logger.Warn("purge delete failed", "event_id", s.ID, "error", err)
			continue
		}
		p.metrics.PurgeDeleted.Inc()
		deleted++
	}

	p.logger.Info("purge finished", "deleted", deleted, "candidates", len(summaries))
	return deleted, nil
}
