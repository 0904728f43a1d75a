// Package domain models USGS earthquake feed data and its canonical alert form.
//
// # Data Source
//
// Events originate from the USGS real-time GeoJSON feeds, documented at
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php. The default
// feed covers the last 30 days of magnitude 2.5+ events worldwide. Each feed
// document is a FeatureCollection; the fields of interest per feature are:
//
//	properties.mag      magnitude, may be null
//	properties.place    human-readable nearest place, may be null
//	properties.time     event time as epoch milliseconds, may be null
//	properties.tsunami  integer flag, non-zero when a tsunami alert exists
//	properties.url      USGS event page URL
//	geometry.coordinates  [longitude, latitude, depth_km], may be short or absent
//
// # Normalization Conventions
//
// Normalization is total: every canonical field has a null-safe default, so
// a feed item can never fail to normalize. Absent optional fields stay null
// in the JSON encoding rather than being omitted, which keeps the published
// document shape fixed for the website. When the source supplies no event
// time, the invocation's shared "now" timestamp stands in.
//
// # ID Generation
//
// Alert IDs are deterministic SHA-256 hashes of time_utc|place|magnitude,
// truncated to 16 hex characters. Re-ingesting the same logical event yields
// the same ID, so durable-store writes overwrite instead of duplicating and
// replaying a feed is safe without coordination. See [DeriveID].
package domain
