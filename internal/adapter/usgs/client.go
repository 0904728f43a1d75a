package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
)

// The USGS feed occasionally rejects default Go user agents.
const userAgent = "Mozilla/5.0 (compatible; quake-alert-etl)"

// Client fetches the USGS earthquake GeoJSON feed.
// It implements pipeline.FeedFetcher.
type Client struct {
	feedURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client bounded by the given timeout.
func NewClient(feedURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchFeed downloads the feed and returns its raw items. Network errors,
// non-200 statuses, and malformed documents all surface as a single wrapped
// error; the feed is the pipeline's only input, so the caller treats any of
// them as fatal to the invocation. There is no internal retry.
func (c *Client) FetchFeed(ctx context.Context) ([]domain.RawFeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed API error: status %d: %s", resp.StatusCode, body)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	items := make([]domain.RawFeedItem, 0, len(fc.Features))
	for _, f := range fc.Features {
		items = append(items, domain.RawFeedItem{
			Magnitude:   f.Properties.Mag,
			Place:       f.Properties.Place,
			TimeMs:      f.Properties.Time,
			Coordinates: f.Geometry.Coordinates,
			Tsunami:     f.Properties.Tsunami,
			URL:         f.Properties.URL,
		})
	}

	c.logger.Debug("feed fetched", "items", len(items))
	return items, nil
}

// USGS GeoJSON response types.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    *int64   `json:"time"`
	Tsunami int      `json:"tsunami"`
	URL     string   `json:"url"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth_km]
}
