package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quakewatch/quake-data-ingest/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_CountryCode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Mapbox expects lon,lat in the path.
		assert.Contains(t, r.URL.Path, "139.690000,35.860000")
		assert.Equal(t, "country", r.URL.Query().Get("types"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{
					PlaceName:  "Japan",
					Text:       "Japan",
					Properties: properties{ShortCode: "jp"},
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	code, err := c.CountryCode(context.Background(), 35.86, 139.69)
	require.NoError(t, err)
	assert.Equal(t, "JP", code)
}

func TestClient_CountryCode_NoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	code, err := c.CountryCode(context.Background(), 0.0, -140.0)
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestClient_CountryCode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CountryCode(context.Background(), 35.86, 139.69)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_CountryCode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CountryCode(context.Background(), 35.86, 139.69)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_CountryCode_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.CountryCode(ctx, 35.86, 139.69)
	require.Error(t, err)
}
