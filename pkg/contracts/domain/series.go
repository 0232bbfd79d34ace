package domain

import (
	"time"
)

// Unit labels for pressure values. All output series carry UnitKPa;
// UnitPSI only ever appears as the configured input unit.
const (
	UnitKPa = "kPa"
	UnitPSI = "psi"
)

// PSIToKPa is the fixed conversion factor applied when the input unit is psi.
const PSIToKPa = 6.89475729

// Point is a single normalized observation: a UTC instant and a value in kPa.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// StationSeries holds the finalized, deduplicated observations for one
// station. Timestamps are strictly increasing and unique.
type StationSeries struct {
	Station string  `json:"station"`
	Points  []Point `json:"points"`
	Unit    string  `json:"unit"`
}

// Meta describes one pipeline run in the output document.
type Meta struct {
	UpdatedAt   string `json:"updated_at"`
	CountSeries int    `json:"count_series"`
	Note        string `json:"note"`
}

// SeriesPayload is the wire form of one station series as the charting
// frontend consumes it: parallel x/y arrays with preformatted timestamps.
// Field names are part of the frontend contract and must not change.
type SeriesPayload struct {
	Station string    `json:"station"`
	X       []string  `json:"x"`
	Y       []float64 `json:"y"`
	Unit    string    `json:"unit"`
}

// Document is the single JSON artifact written per run.
type Document struct {
	Meta   Meta            `json:"meta"`
	Series []SeriesPayload `json:"series"`
}

// SkippedFile records a per-file parse failure that did not abort the run.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Summary reports what one pipeline run did.
type Summary struct {
	FilesDiscovered int           `json:"files_discovered"`
	FilesParsed     int           `json:"files_parsed"`
	Skipped         []SkippedFile `json:"skipped,omitempty"`
	StationsEmitted int           `json:"stations_emitted"`
	OutputPath      string        `json:"output_path"`
}
