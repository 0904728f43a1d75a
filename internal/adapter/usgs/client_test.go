package usgs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedDocument = `{
	"type": "FeatureCollection",
	"features": [
		{
			"properties": {"mag": 5.1, "place": "10km N of Testville", "time": 1717144215000, "tsunami": 1, "url": "https://example.com/ev1"},
			"geometry": {"coordinates": [1.0, 2.0, 12.3]}
		},
		{
			"properties": {"mag": null, "place": null, "time": null, "tsunami": 0, "url": ""},
			"geometry": {"coordinates": []}
		}
	]
}`

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		feedURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestFetchFeed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedDocument))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL, 5*time.Second).FetchFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	require.NotNil(t, first.Magnitude)
	assert.InEpsilon(t, 5.1, *first.Magnitude, 0.0001)
	require.NotNil(t, first.Place)
	assert.Equal(t, "10km N of Testville", *first.Place)
	require.NotNil(t, first.TimeMs)
	assert.Equal(t, int64(1717144215000), *first.TimeMs)
	assert.Equal(t, []float64{1.0, 2.0, 12.3}, first.Coordinates)
	assert.Equal(t, 1, first.Tsunami)
	assert.Equal(t, "https://example.com/ev1", first.URL)

	second := items[1]
	assert.Nil(t, second.Magnitude)
	assert.Nil(t, second.Place)
	assert.Nil(t, second.TimeMs)
	assert.Empty(t, second.Coordinates)
	assert.Equal(t, 0, second.Tsunami)
}

func TestFetchFeed_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	items, err := testClient(srv.URL, 5*time.Second).FetchFeed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetchFeed_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream maintenance"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).FetchFeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream maintenance")
}

func TestFetchFeed_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).FetchFeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestFetchFeed_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).FetchFeed(context.Background())
	require.Error(t, err)
}
