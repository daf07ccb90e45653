// Package usgs fetches earthquake events from the USGS FDSN event web
// service in GeoJSON format.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quakewatch/quake-data-ingest/internal/domain"
)

// queryTimeLayout is the ISO-8601 form the fdsnws endpoint accepts for
// starttime/endtime. Times are always sent in UTC.
const queryTimeLayout = "2006-01-02T15:04:05"

// Client fetches raw events for a time window. It implements
// pipeline.Fetcher.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a feed client against the given query endpoint, e.g.
// "https://earthquake.usgs.gov/fdsnws/event/1/query".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Fetch returns all events in [start, end]. A minMagnitude above zero is
// passed to the feed as a server-side filter. Transient failures (transport
// errors and 5xx responses) are retried once before the window is given up;
// the caller decides whether a failed window aborts the run.
func (c *Client) Fetch(ctx context.Context, start, end time.Time, minMagnitude float64) ([]domain.RawEvent, error) {
	params := url.Values{
		"format":    {"geojson"},
		"starttime": {start.UTC().Format(queryTimeLayout)},
		"endtime":   {end.UTC().Format(queryTimeLayout)},
	}
	if minMagnitude > 0 {
		params.Set("minmagnitude", strconv.FormatFloat(minMagnitude, 'g', -1, 64))
	}
	fullURL := c.baseURL + "?" + params.Encode()

	events, err := c.doRequest(ctx, fullURL)
	if err != nil && retryable(err) && ctx.Err() == nil {
		c.logger.Warn("feed fetch failed, retrying once", "error", err)
		events, err = c.doRequest(ctx, fullURL)
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

// retryableError marks failures worth one retry.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]domain.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &retryableError{fmt.Errorf("feed request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &retryableError{err}
		}
		return nil, err
	}

	var doc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return doc.Features, nil
}

// featureCollection is the top level of a GeoJSON feed response.
type featureCollection struct {
	Type     string            `json:"type"`
	Features []domain.RawEvent `json:"features"`
}
