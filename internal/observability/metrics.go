package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline and retention purger.
type Metrics struct {
	EventsFetched  prometheus.Counter
	EventsIngested prometheus.Counter
	EventsDropped  prometheus.Counter
	FetchErrors    prometheus.Counter
	WindowsSkipped prometheus.Counter
	IngestRunning  prometheus.Gauge

	BatchSize          prometheus.Histogram
	IngestRunDuration  prometheus.Histogram
	WatermarkFallbacks prometheus.Counter

	PurgeDeleted      prometheus.Counter
	PurgeDeleteErrors prometheus.Counter

	ChangeFeedPublished prometheus.Counter

	// Coordinate→country lookup metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "events_fetched_total",
			Help:      "Total raw events returned by the feed.",
		}),
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "events_ingested_total",
			Help:      "Total normalized events upserted into storage.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "events_dropped_total",
			Help:      "Total events dropped for missing core fields.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "fetch_errors_total",
			Help:      "Total failed feed fetches.",
		}),
		WindowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "windows_skipped_total",
			Help:      "Backfill sub-windows skipped after fetch failure.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_ingest",
			Name:      "ingest_running",
			Help:      "1 while an ingestion run is active, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_ingest",
			Name:      "batch_size",
			Help:      "Number of events fetched per window.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		IngestRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_ingest",
			Name:      "ingest_run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-write run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		WatermarkFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "watermark_fallbacks_total",
			Help:      "Times the watermark fell back to now-minus-lookback (empty storage).",
		}),
		PurgeDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "purge_deleted_total",
			Help:      "Total records deleted by the retention purger.",
		}),
		PurgeDeleteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "purge_delete_errors_total",
			Help:      "Per-item delete failures during a purge run.",
		}),
		ChangeFeedPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "change_feed_published_total",
			Help:      "Events published to the Kafka change feed.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "geocode_requests_total",
			Help:      "Coordinate-to-country lookup requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_ingest",
			Name:      "geocode_cache_total",
			Help:      "Coordinate-to-country cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_ingest",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_ingest",
			Name:      "geocode_enabled",
			Help:      "1 when coordinate lookup enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.EventsFetched,
		m.EventsIngested,
		m.EventsDropped,
		m.FetchErrors,
		m.WindowsSkipped,
		m.IngestRunning,
		m.BatchSize,
		m.IngestRunDuration,
		m.WatermarkFallbacks,
		m.PurgeDeleted,
		m.PurgeDeleteErrors,
		m.ChangeFeedPublished,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsFetched:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "events_fetched_total"}),
		EventsIngested:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "events_ingested_total"}),
		EventsDropped:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "events_dropped_total"}),
		FetchErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "fetch_errors_total"}),
		WindowsSkipped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "windows_skipped_total"}),
		IngestRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_ingest", Name: "ingest_running"}),
		BatchSize:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_ingest", Name: "batch_size"}),
		IngestRunDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_ingest", Name: "ingest_run_duration_seconds"}),
		WatermarkFallbacks:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "watermark_fallbacks_total"}),
		PurgeDeleted:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "purge_deleted_total"}),
		PurgeDeleteErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "purge_delete_errors_total"}),
		ChangeFeedPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "change_feed_published_total"}),
		GeocodeRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "geocode_requests_total"}, []string{"outcome"}),
		GeocodeCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_ingest", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_ingest", Name: "geocode_api_duration_seconds"}),
		GeocodeEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_ingest", Name: "geocode_enabled"}),
	}
}
