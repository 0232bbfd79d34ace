// Package exporter assembles and writes the single JSON document the
// charting frontend consumes.
//
// The document shape is a stable contract: meta.updated_at,
// meta.count_series, meta.note, and per-station objects with station, x,
// y, and unit fields. Timestamps use a fixed second-precision UTC format
// and values are rounded to 4 decimals here, not earlier.
package exporter
