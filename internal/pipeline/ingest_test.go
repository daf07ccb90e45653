package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/quakewatch/quake-data-ingest/internal/domain"
	"github.com/quakewatch/quake-data-ingest/internal/observability"
	"github.com/quakewatch/quake-data-ingest/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type fetchCall struct {
	start, end   time.Time
	minMagnitude float64
}

type mockFetcher struct {
	raws  []domain.RawEvent
	err   error
	errOn map[int]error // 0-based call index -> error
	calls []fetchCall
}

func (m *mockFetcher) Fetch(_ context.Context, start, end time.Time, minMagnitude float64) ([]domain.RawEvent, error) {
	idx := len(m.calls)
	m.calls = append(m.calls, fetchCall{start: start, end: end, minMagnitude: minMagnitude})
	if err, ok := m.errOn[idx]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.raws, nil
}

type mockStore struct {
	items     map[string]domain.QuakeEvent
	summaries []domain.EventSummary
	scanErr   error
	upsertErr error
	failIDs   map[string]bool

	filters []domain.EventFilter
	deleted []string
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[string]domain.QuakeEvent)}
}

func (m *mockStore) UpsertBatch(_ context.Context, events []domain.QuakeEvent) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for _, e := range events {
		m.items[e.ID] = e
	}
	return nil
}

func (m *mockStore) ScanSummaries(_ context.Context, filter domain.EventFilter) ([]domain.EventSummary, error) {
	m.filters = append(m.filters, filter)
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	return m.summaries, nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	if m.failIDs[id] {
		return errors.New("delete failed")
	}
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

type mockPublisher struct {
	published []domain.QuakeEvent
	err       error
}

func (m *mockPublisher) PublishBatch(_ context.Context, events []domain.QuakeEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, events...)
	return nil
}

type stubResolver struct {
	attr domain.Attribution
}

func (s *stubResolver) Resolve(_ context.Context, _ string, _, _ float64) domain.Attribution {
	return s.attr
}

// --- helpers ---

func fptr(f float64) *float64 { return &f }
func sptr(s string) *string   { return &s }
func iptr(i int) *int         { return &i }
func i64ptr(i int64) *int64   { return &i }

// 2025-03-15 08:42:11.531 UTC, a Saturday.
const tokyoEpoch = int64(1742028131531)

func tokyoRaw() domain.RawEvent {
	return domain.RawEvent{
		ID: "us7000abcd",
		Geometry: &domain.RawGeometry{
			Type:        "Point",
			Coordinates: []float64{139.69, 35.86, 48.2},
		},
		Properties: domain.RawProperties{
			Mag:     fptr(6.8),
			Place:   sptr("20km N of Tokyo, Japan"),
			Time:    i64ptr(tokyoEpoch),
			Updated: i64ptr(tokyoEpoch + 600000),
			Tsunami: iptr(1),
			Sig:     fptr(711),
			Net:     sptr("us"),
			Type:    sptr("earthquake"),
		},
	}
}

func frozenClock(t *testing.T) clockwork.Clock {
	t.Helper()
	fake := clockwork.NewFakeClockAt(time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC))
	pipeline.SetClock(fake)
	domain.SetClock(fake)
	t.Cleanup(func() {
		pipeline.SetClock(nil)
		domain.SetClock(nil)
	})
	return fake
}

func newIngestor(f pipeline.Fetcher, s pipeline.EventStore, p pipeline.Publisher, r domain.GeoResolver) *pipeline.Ingestor {
	return pipeline.NewIngestor(f, s, p, r,
		slog.Default(), observability.NewMetricsForTesting(), 0, 3*time.Hour)
}

// --- tests ---

func TestIngestor_RunRolling_EndToEnd(t *testing.T) {
	now := frozenClock(t).Now().UTC()

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()
	publisher := &mockPublisher{}
	resolver := &stubResolver{attr: domain.Attribution{Country: "Japan", Continent: "Asia"}}

	ing := newIngestor(fetcher, store, publisher, resolver)
	require.Error(t, ing.CheckReadiness(context.Background()))

	count, err := ing.RunRolling(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.NoError(t, ing.CheckReadiness(context.Background()))

	// Empty table: the window falls back to now minus lookback.
	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, now.Add(-3*time.Hour), fetcher.calls[0].start)
	assert.Equal(t, now, fetcher.calls[0].end)

	stored, ok := store.items["us7000abcd"]
	require.True(t, ok)
	assert.Equal(t, 6.8, *stored.Magnitude)
	assert.Equal(t, "Severe Tsunami Risk", stored.FullAlertLevel)
	assert.Equal(t, "Strong", stored.MagCategory)
	assert.Equal(t, "Shallow", stored.DepthCategory)
	assert.Equal(t, "Japan", stored.Country)
	assert.Equal(t, "Asia", stored.Continent)
	assert.Equal(t, "Japan", stored.RegionName)
	assert.Equal(t, 2025, stored.Year)
	assert.Equal(t, 5, stored.DayOfWeek) // Saturday, Monday=0
	assert.Equal(t, now, stored.ProcessedAt)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "us7000abcd", publisher.published[0].ID)
}

func TestIngestor_RunRolling_StartsFromWatermark(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{}
	store := newMockStore()
	store.summaries = []domain.EventSummary{
		{ID: "old", TimeEpoch: 100},
		{ID: "newest", TimeEpoch: tokyoEpoch},
	}

	ing := newIngestor(fetcher, store, nil, nil)
	_, err := ing.RunRolling(context.Background())
	require.NoError(t, err)

	require.Len(t, store.filters, 1)
	require.NotNil(t, store.filters[0].Year)
	assert.Equal(t, 2025, *store.filters[0].Year)

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, time.UnixMilli(tokyoEpoch).UTC(), fetcher.calls[0].start)
}

func TestIngestor_RunRolling_WatermarkSurvivesScanFailure(t *testing.T) {
	now := frozenClock(t).Now().UTC()

	fetcher := &mockFetcher{}
	store := newMockStore()
	store.scanErr = errors.New("table unavailable")

	ing := newIngestor(fetcher, store, nil, nil)
	_, err := ing.RunRolling(context.Background())
	require.NoError(t, err)

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, now.Add(-3*time.Hour), fetcher.calls[0].start)
}

func TestIngestor_RunRolling_DropsIncompleteEvents(t *testing.T) {
	frozenClock(t)

	noGeometry := tokyoRaw()
	noGeometry.ID = "us7000nogeo"
	noGeometry.Geometry = nil

	noMagnitude := tokyoRaw()
	noMagnitude.ID = "us7000nomag"
	noMagnitude.Properties.Mag = nil

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw(), noGeometry, noMagnitude}}
	store := newMockStore()

	ing := newIngestor(fetcher, store, nil, nil)
	count, err := ing.RunRolling(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Len(t, store.items, 1)
	assert.Contains(t, store.items, "us7000abcd")
}

func TestIngestor_RunRolling_NilResolverYieldsUnknown(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()

	ing := newIngestor(fetcher, store, nil, nil)
	_, err := ing.RunRolling(context.Background())
	require.NoError(t, err)

	stored := store.items["us7000abcd"]
	assert.Equal(t, "Unknown", stored.Country)
	assert.Equal(t, "Unknown", stored.Continent)
}

func TestIngestor_RunRolling_FetchErrorFailsRun(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{err: errors.New("feed down")}
	store := newMockStore()

	ing := newIngestor(fetcher, store, nil, nil)
	_, err := ing.RunRolling(context.Background())
	require.Error(t, err)
	assert.Error(t, ing.CheckReadiness(context.Background()))
	assert.Empty(t, store.items)
}

func TestIngestor_RunRolling_UpsertErrorFailsRun(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()
	store.upsertErr = errors.New("throughput exceeded")

	ing := newIngestor(fetcher, store, nil, nil)
	_, err := ing.RunRolling(context.Background())
	require.Error(t, err)
	assert.Error(t, ing.CheckReadiness(context.Background()))
}

func TestIngestor_RunRolling_PublisherErrorDoesNotFailRun(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()
	publisher := &mockPublisher{err: errors.New("broker unreachable")}

	ing := newIngestor(fetcher, store, publisher, nil)
	count, err := ing.RunRolling(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.items, 1)
}

func TestIngestor_RunRolling_RepeatedRunsAreIdempotent(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()

	ing := newIngestor(fetcher, store, nil, nil)
	for range 3 {
		_, err := ing.RunRolling(context.Background())
		require.NoError(t, err)
	}

	assert.Len(t, store.items, 1, "re-ingesting the same event must not duplicate it")
}

func TestIngestor_RunBackfill_MonthlyWindows(t *testing.T) {
	now := frozenClock(t).Now().UTC()

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()

	ing := newIngestor(fetcher, store, nil, nil)
	total, err := ing.RunBackfill(context.Background(), 13, 4.0)
	require.NoError(t, err)
	assert.Equal(t, 13, total) // one stored event per window

	// Trailing 13 months from 2025-03-15: month starts 2024-03 .. 2025-03.
	require.Len(t, fetcher.calls, 13)
	first := fetcher.calls[0]
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.start)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), first.end)
	assert.Equal(t, 4.0, first.minMagnitude)

	last := fetcher.calls[len(fetcher.calls)-1]
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), last.start)
	assert.Equal(t, now, last.end, "the current month window ends at now")

	require.NoError(t, ing.CheckReadiness(context.Background()))
}

func TestIngestor_RunBackfill_SkipsFailedWindows(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{
		raws:  []domain.RawEvent{tokyoRaw()},
		errOn: map[int]error{1: errors.New("result cap exceeded")},
	}
	store := newMockStore()

	ing := newIngestor(fetcher, store, nil, nil)
	total, err := ing.RunBackfill(context.Background(), 13, 4.0)
	require.NoError(t, err, "a failed sub-window must not abort the backfill")
	assert.Equal(t, 12, total)
	assert.Len(t, fetcher.calls, 13)
}

func TestIngestor_RunBackfill_StopsOnCancelledContext(t *testing.T) {
	frozenClock(t)

	fetcher := &mockFetcher{raws: []domain.RawEvent{tokyoRaw()}}
	store := newMockStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := newIngestor(fetcher, store, nil, nil)
	_, err := ing.RunBackfill(ctx, 13, 4.0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls)
}
