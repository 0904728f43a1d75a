package domain

// EventTypeEarthquake is the only event category the USGS feed produces.
const EventTypeEarthquake = "earthquake"

// PlaceholderSummary is the summary text used when no provider is configured
// or every provider failed.
const PlaceholderSummary = "Summary unavailable."

// RawFeedItem is one unprocessed feature from the USGS feed. Optional source
// fields stay pointers so absence survives into normalization. Items are
// read-only and scoped to a single pipeline iteration.
type RawFeedItem struct {
	Magnitude   *float64
	Place       *string
	TimeMs      *int64    // epoch milliseconds
	Coordinates []float64 // [lon, lat, depth_km], possibly short or nil
	Tsunami     int       // truthy flag as reported upstream
	URL         string
}

// NormalizedAlert is the canonical record derived from a RawFeedItem. The
// JSON encoding always carries every key; absent source fields marshal as
// null, never as a missing key.
type NormalizedAlert struct {
	Magnitude *float64 `json:"magnitude"`
	Place     *string  `json:"place"`
	TimeUTC   string   `json:"time_utc"`
	DepthKm   *float64 `json:"depth_km"`
	Tsunami   bool     `json:"tsunami"`
	Source    string   `json:"source"`
}

// AlertRecord is the persisted and published unit wrapping a NormalizedAlert.
// CreatedAt is shared by every record produced in one invocation.
type AlertRecord struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"created_at"`
	Type      string          `json:"type"`
	Data      NormalizedAlert `json:"data"`
	Summary   string          `json:"summary"`
}

// Result is the structured outcome of one invocation: a published-record
// count on success, or the fetch error message when the run short-circuited.
// Exactly one of the two fields is set.
type Result struct {
	Count *int   `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

// SuccessResult builds a Result carrying a published-record count.
func SuccessResult(count int) Result {
	return Result{Count: &count}
}

// ErrorResult builds a Result carrying a fetch failure.
func ErrorResult(err error) Result {
	return Result{Error: err.Error()}
}
