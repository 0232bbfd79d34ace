package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"presviz/pkg/contracts/domain"
)

// OutputFileName is the fixed name of the generated document inside the
// output directory.
const OutputFileName = "all_series.json"

// Notes placed in meta.note depending on whether resampling ran.
const (
	NoteResampled = "Resampled for display"
	NoteRaw       = "Raw cadence"
)

// BuildDocument assembles the output document from finalized station
// series, preserving the order in which stations were first encountered.
// Stations with no retained points must already be filtered out; every
// series counts toward meta.count_series.
func BuildDocument(series []domain.StationSeries, resampled bool, now time.Time) domain.Document {
	note := NoteRaw
	if resampled {
		note = NoteResampled
	}

	payloads := make([]domain.SeriesPayload, 0, len(series))
	for _, s := range series {
		payload := domain.SeriesPayload{
			Station: s.Station,
			X:       make([]string, 0, len(s.Points)),
			Y:       make([]float64, 0, len(s.Points)),
			Unit:    domain.UnitKPa,
		}
		for _, p := range s.Points {
			payload.X = append(payload.X, formatTimestamp(p.Time))
			payload.Y = append(payload.Y, round4(p.Value))
		}
		payloads = append(payloads, payload)
	}

	return domain.Document{
		Meta: domain.Meta{
			UpdatedAt:   formatTimestamp(now),
			CountSeries: len(payloads),
			Note:        note,
		},
		Series: payloads,
	}
}

// WriteDocument serializes the document and writes it into outDir,
// creating the directory if needed and overwriting any previous output.
// This is the last step of a run; on failure no partial document replaces
// the previous one only if marshaling failed, so marshal first, write
// second.
func WriteDocument(outDir string, doc domain.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal output document: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	outPath := filepath.Join(outDir, OutputFileName)
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	slog.Debug("Wrote output document",
		slog.String("path", outPath),
		slog.Int("series_count", doc.Meta.CountSeries),
		slog.Int("bytes", len(data)))

	return outPath, nil
}
