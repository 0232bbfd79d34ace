package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"presviz/internal/config"
	"presviz/internal/infrastructure"
	"presviz/internal/pipeline"
)

func main() {
	inDir := flag.String("in", "", "input root directory for sensor logs (default from config)")
	outDir := flag.String("out", "", "output directory for all_series.json (default from config)")
	units := flag.String("units", "", "assumed input unit, psi or kPa (default from config)")
	timezone := flag.String("tz", "", "IANA timezone for naive timestamps (default from config)")
	resample := flag.String("resample", "", "resample rule, e.g. 15m or 15min; none to disable (default from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Flags override the loaded configuration for one-off runs.
	if *inDir != "" {
		cfg.Pipeline.InputDir = *inDir
	}
	if *outDir != "" {
		cfg.Pipeline.OutputDir = *outDir
	}
	if *units != "" {
		cfg.Pipeline.Units = *units
	}
	if *timezone != "" {
		cfg.Pipeline.Timezone = *timezone
	}
	if *resample != "" {
		cfg.Pipeline.Resample = *resample
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.NewRunContext(context.Background())
	logger.Info("Run started", slog.String("run_id", runID))

	summary, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, skipped := range summary.Skipped {
		fmt.Printf("[WARN] Failed to parse %s: %s\n", skipped.Path, skipped.Reason)
	}
	fmt.Printf("[OK] Wrote %s with %d series.\n", summary.OutputPath, summary.StationsEmitted)
}
