package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presviz/internal/config"
	"presviz/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, inDir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Pipeline.InputDir = inDir
	cfg.Pipeline.OutputDir = filepath.Join(t.TempDir(), "site", "data")
	cfg.Pipeline.Extensions = []string{".dat", ".xlsx"}
	cfg.Pipeline.Resample = "none"
	require.NoError(t, cfg.Validate())
	return cfg
}

func writeInput(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readDocument(t *testing.T, path string) domain.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

const scenarioInput = `# comment
time,pressure
2024-01-01T00:00:00Z,10.0
2024-01-01T00:00:00Z,20.0
2024-01-01T00:15:00Z,30.0
`

func TestRunScenario(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "MJ03F/PARO1/jan.dat", scenarioInput)

	cfg := testConfig(t, inDir)
	cfg.Pipeline.Units = "psi"

	summary, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesDiscovered)
	assert.Equal(t, 1, summary.FilesParsed)
	assert.Equal(t, 1, summary.StationsEmitted)
	assert.Empty(t, summary.Skipped)

	doc := readDocument(t, summary.OutputPath)
	assert.Equal(t, 1, doc.Meta.CountSeries)
	assert.Equal(t, "Raw cadence", doc.Meta.Note)

	require.Len(t, doc.Series, 1)
	series := doc.Series[0]
	assert.Equal(t, "MJ03F/PARO1", series.Station)
	assert.Equal(t, "kPa", series.Unit)
	assert.Equal(t, []string{"2024-01-01T00:00:00Z", "2024-01-01T00:15:00Z"}, series.X)
	require.Len(t, series.Y, 2)
	assert.InDelta(t, 103.4214, series.Y[0], 1e-9)
	assert.InDelta(t, 206.8427, series.Y[1], 1e-9)
}

func TestRunResampling(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "MJ03F/PARO1/jan.dat", `time,kpa
2024-01-01T00:00:00Z,1.0
2024-01-01T00:05:00Z,2.0
2024-01-01T00:10:00Z,3.0
`)

	cfg := testConfig(t, inDir)
	cfg.Pipeline.Units = "kPa"
	cfg.Pipeline.Resample = "15min"

	summary, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	doc := readDocument(t, summary.OutputPath)
	assert.Equal(t, "Resampled for display", doc.Meta.Note)
	require.Len(t, doc.Series, 1)
	assert.Equal(t, []string{"2024-01-01T00:00:00Z"}, doc.Series[0].X)
	require.Len(t, doc.Series[0].Y, 1)
	assert.InDelta(t, 2.0, doc.Series[0].Y[0], 1e-9)
}

func TestRunMergesFilesSharingStation(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "A/B/f.dat", "2024-01-01T00:00:00Z,1.0\n2024-01-01T02:00:00Z,2.0\n")
	writeInput(t, inDir, "A/B/g.dat", "2024-01-01T01:00:00Z,3.0\n")
	writeInput(t, inDir, "h.dat", "2024-01-01T00:00:00Z,4.0\n")

	cfg := testConfig(t, inDir)
	cfg.Pipeline.Units = "kPa"

	summary, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.StationsEmitted)

	doc := readDocument(t, summary.OutputPath)
	byStation := make(map[string]domain.SeriesPayload)
	for _, s := range doc.Series {
		byStation[s.Station] = s
	}

	merged, ok := byStation["A/B"]
	require.True(t, ok, "files in A/B merge into one station")
	assert.Equal(t, []string{
		"2024-01-01T00:00:00Z",
		"2024-01-01T01:00:00Z",
		"2024-01-01T02:00:00Z",
	}, merged.X)

	loose, ok := byStation["h"]
	require.True(t, ok, "file in root keyed by filename stem")
	assert.Equal(t, []float64{4.0}, loose.Y)
}

func TestRunSkipsUnparseableFile(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "A/good.dat", "2024-01-01T00:00:00Z,1.0\n")
	// Not a real workbook; the parser must skip it without aborting the run
	writeInput(t, inDir, "A/broken.xlsx", "this is not a zip archive")

	cfg := testConfig(t, inDir)
	cfg.Pipeline.Units = "kPa"

	summary, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesDiscovered)
	assert.Equal(t, 1, summary.FilesParsed)
	require.Len(t, summary.Skipped, 1)
	assert.Contains(t, summary.Skipped[0].Path, "broken.xlsx")
	assert.Equal(t, 1, summary.StationsEmitted)
}

func TestRunExcludesEmptyStations(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "A/good.dat", "2024-01-01T00:00:00Z,1.0\n")
	writeInput(t, inDir, "B/empty.dat", "# only comments\n")
	writeInput(t, inDir, "C/junk.dat", "a,b\nc,d\n")

	cfg := testConfig(t, inDir)
	cfg.Pipeline.Units = "kPa"

	summary, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.FilesParsed)
	assert.Equal(t, 1, summary.StationsEmitted)

	doc := readDocument(t, summary.OutputPath)
	require.Len(t, doc.Series, 1)
	assert.Equal(t, "A", doc.Series[0].Station)
}

func TestRunIdempotent(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "MJ03F/PARO1/jan.dat", scenarioInput)
	writeInput(t, inDir, "MJ03E/feb.dat", "2024-02-01 00:00:00\t7.5\n2024-02-01 00:00:00\t8.5\n")

	cfg := testConfig(t, inDir)
	cfg.Pipeline.Units = "psi"

	first, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	firstDoc := readDocument(t, first.OutputPath)

	second, err := Run(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	secondDoc := readDocument(t, second.OutputPath)

	a, err := json.Marshal(firstDoc.Series)
	require.NoError(t, err)
	b, err := json.Marshal(secondDoc.Series)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b), "series content identical across runs")
}

func TestRunMissingInputDirFatal(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent"))

	_, err := Run(context.Background(), cfg, testLogger())
	assert.Error(t, err)
}
