package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"presviz/internal/config"
	"presviz/internal/dataprocessing"
	"presviz/internal/exporter"
	"presviz/internal/files"
	"presviz/pkg/contracts/domain"
)

// Run executes one full conversion pass: discover input files, parse each
// one, aggregate per station, and write the output document. A single
// file's parse failure is logged and skipped; everything else is fatal and
// returned. The write happens only after all stations are computed, so a
// fatal error never leaves a partial document behind.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.Summary, error) {
	var summary domain.Summary

	loc, err := cfg.Pipeline.InputLocation()
	if err != nil {
		return summary, err
	}
	interval, resampling := cfg.Pipeline.ResampleInterval()

	logger.InfoContext(ctx, "Starting pressure series build",
		slog.String("input_dir", cfg.Pipeline.InputDir),
		slog.String("output_dir", cfg.Pipeline.OutputDir),
		slog.String("units", cfg.Pipeline.Units),
		slog.String("timezone", cfg.Pipeline.Timezone),
		slog.Bool("resampling", resampling),
		slog.String("resample_rule", cfg.Pipeline.Resample))

	discovery := files.NewDiscovery(cfg.Pipeline.InputDir, cfg.Pipeline.Extensions)
	inputs, err := discovery.Find()
	if err != nil {
		return summary, err
	}
	summary.FilesDiscovered = len(inputs)
	logger.InfoContext(ctx, "Input files discovered", slog.Int("count", len(inputs)))

	opts := dataprocessing.ParseOptions{
		Location: loc,
		Units:    cfg.Pipeline.Units,
	}

	// Station points keyed by id, with first-encounter order preserved
	// for the output document.
	stationPoints := make(map[string][]domain.Point)
	var stationOrder []string

	for i, file := range inputs {
		logger.InfoContext(ctx, "Processing file",
			slog.Int("current", i+1),
			slog.Int("total", len(inputs)),
			slog.String("path", file.Path),
			slog.String("station", file.Station))

		points, err := dataprocessing.ParseFile(file.Path, opts)
		if err != nil {
			logger.WarnContext(ctx, "Skipping unparseable file",
				slog.String("path", file.Path),
				slog.String("error", err.Error()))
			summary.Skipped = append(summary.Skipped, domain.SkippedFile{
				Path:   file.Path,
				Reason: err.Error(),
			})
			continue
		}
		summary.FilesParsed++

		if len(points) == 0 {
			logger.DebugContext(ctx, "File yielded no rows", slog.String("path", file.Path))
			continue
		}

		if _, seen := stationPoints[file.Station]; !seen {
			stationOrder = append(stationOrder, file.Station)
		}
		stationPoints[file.Station] = append(stationPoints[file.Station], points...)
	}

	var series []domain.StationSeries
	for _, station := range stationOrder {
		points := dataprocessing.Aggregate(stationPoints[station])
		if resampling {
			points = dataprocessing.Resample(points, interval)
		}
		if len(points) == 0 {
			continue
		}
		series = append(series, domain.StationSeries{
			Station: station,
			Points:  points,
			Unit:    domain.UnitKPa,
		})
	}

	doc := exporter.BuildDocument(series, resampling, time.Now().UTC())
	outPath, err := exporter.WriteDocument(cfg.Pipeline.OutputDir, doc)
	if err != nil {
		return summary, fmt.Errorf("failed to write output: %w", err)
	}

	summary.StationsEmitted = len(series)
	summary.OutputPath = outPath

	logger.InfoContext(ctx, "Build complete",
		slog.Int("stations", summary.StationsEmitted),
		slog.Int("files_parsed", summary.FilesParsed),
		slog.Int("files_skipped", len(summary.Skipped)),
		slog.String("output", outPath))

	return summary, nil
}
