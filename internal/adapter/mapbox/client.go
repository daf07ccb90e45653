// Package mapbox implements the coordinate→country lookup used as the last
// step of the geographic attribution fallback chain.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quakewatch/quake-data-ingest/internal/observability"
)

// Client implements geo.CountryLocator using the Mapbox Geocoding API with
// results restricted to country features.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox reverse-geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// CountryCode reverse-geocodes a coordinate pair to an ISO alpha-2 country
// code. An empty code with nil error means the point matched no country
// (open ocean).
func (c *Client) CountryCode(ctx context.Context, lat, lon float64) (string, error) {
	// Mapbox uses lon,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lon, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
		"types":        {"country"},
		"limit":        {"1"},
	}

	start := time.Now()
	code, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case code == "":
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return code, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return "", nil
	}

	f := mapboxResp.Features[0]
	code := f.Properties.ShortCode
	if code == "" {
		return "", nil
	}
	return strings.ToUpper(code), nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	PlaceName  string     `json:"place_name"`
	Text       string     `json:"text"`
	Properties properties `json:"properties"`
}

type properties struct {
	ShortCode string `json:"short_code"` // ISO alpha-2, lowercase
}
