// Package pipeline orchestrates one conversion run, sequentially and
// single-threaded: discovery, per-file parsing with skip-on-error,
// per-station aggregation, and serialization. Re-running on unchanged
// inputs produces identical series content (only meta.updated_at moves).
package pipeline
