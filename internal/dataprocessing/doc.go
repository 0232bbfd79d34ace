// Package dataprocessing provides the parsing and aggregation stages of
// the presviz pipeline.
//
// # Architecture
//
// The package is organized into two components:
//
// 1. Parser: reads one sensor log (delimited text or xlsx), infers which
// column is time and which is value, and produces normalized points
// (UTC instants, kPa values).
//
// 2. Aggregation: merges all points collected for one station, averaging
// duplicate timestamps and optionally resampling onto a fixed grid for
// display.
//
// # Column inference
//
// When a header row is present, columns are selected by case-insensitive
// exact match against ordered synonym lists (time, timestamp, date,
// datetime / pressure, prs, kpa, psi, value, val); the first key that
// matches wins regardless of position. Without a recognized header the
// first column is time and the second is value (or the first, for
// single-column files).
//
// # Error handling
//
// Row-level problems (bad timestamp, bad value, missing cells) silently
// drop the row. File-level problems (unreadable file, broken workbook)
// are returned to the caller, which logs and skips the file. An empty
// file is zero points, not an error.
package dataprocessing
