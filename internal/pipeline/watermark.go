package pipeline

import (
	"context"
	"time"

	"github.com/quakewatch/quake-data-ingest/internal/domain"
)

// NextWindowStart picks the inclusive lower bound of the next rolling fetch:
// the maximum stored event timestamp for the current calendar year, or
// now-minus-lookback when the year has no records yet (cold start, empty
// table, or a scan failure). The result never decreases across runs as long
// as writes land before the next call.
//
// TODO: replace the year scan with an explicit last-synced marker item once
// the table grows past what a filtered scan can serve cheaply.
func (in *Ingestor) NextWindowStart(ctx context.Context) time.Time {
	now := clock.Now().UTC()
	year := now.Year()

	summaries, err := in.store.ScanSummaries(ctx, domain.EventFilter{Year: &year})
	if err != nil {
		in.metrics.WatermarkFallbacks.Inc()
		in.logger.Warn("watermark scan failed, falling back to lookback", "error", err)
		return now.Add(-in.lookback)
	}
	if len(summaries) == 0 {
		in.metrics.WatermarkFallbacks.Inc()
		in.logger.Info("no records for current year, using lookback window", "year", year)
		return now.Add(-in.lookback)
	}

	var maxEpoch int64
	for _, s := range summaries {
		if s.TimeEpoch > maxEpoch {
			maxEpoch = s.TimeEpoch
		}
	}
	return time.UnixMilli(maxEpoch).UTC()
}
