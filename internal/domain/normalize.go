package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Normalize maps one raw feed item into the canonical alert shape. It is a
// total function: every field has a null-safe default, so it never fails.
// The shared per-invocation "now" stands in when the source supplies no
// event time.
func Normalize(raw RawFeedItem, now time.Time) NormalizedAlert {
	timeUTC := now.UTC().Format(time.RFC3339)
	if raw.TimeMs != nil {
		timeUTC = time.UnixMilli(*raw.TimeMs).UTC().Format(time.RFC3339)
	}

	var depth *float64
	if len(raw.Coordinates) >= 3 {
		d := raw.Coordinates[2]
		depth = &d
	}

	return NormalizedAlert{
		Magnitude: raw.Magnitude,
		Place:     raw.Place,
		TimeUTC:   timeUTC,
		DepthKm:   depth,
		Tsunami:   raw.Tsunami != 0,
		Source:    raw.URL,
	}
}

// DeriveID produces a deterministic 16-hex-character fingerprint from the
// alert's stable fields. Same (time, place, magnitude) always hashes to the
// same id, so re-ingesting a logical event overwrites the stored record
// instead of duplicating it. Nil fields hash as empty strings.
func DeriveID(timeUTC string, place *string, magnitude *float64) string {
	p := ""
	if place != nil {
		p = *place
	}
	m := ""
	if magnitude != nil {
		m = fmt.Sprintf("%g", *magnitude)
	}
	input := fmt.Sprintf("%s|%s|%s", timeUTC, p, m)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
