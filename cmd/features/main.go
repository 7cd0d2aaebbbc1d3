package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"creditfeatures/internal/config"
	"creditfeatures/internal/pipeline"
)

func main() {
	dataDir := flag.String("dir", "", "data directory containing the input tables")
	outDir := flag.String("out", "", "output directory (defaults to <dir>/output)")
	configFile := flag.String("config", "", "optional YAML config file")
	persist := flag.Bool("persist", true, "write output files after a successful run")
	flag.Parse()

	persistSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "persist" {
			persistSet = true
		}
	})

	cfg, err := loadConfig(*configFile, *dataDir, *outDir, *persist, persistSet)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	slog.Info("Starting feature pipeline",
		"data_dir", cfg.Data.Dir,
		"output_dir", cfg.Output.Dir,
		"persist", cfg.Output.Persist)

	p := pipeline.New(cfg, slog.Default())
	result, err := p.Run(context.Background())
	if err != nil {
		slog.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Pipeline run completed",
		"train_rows", result.Train.NumRows(),
		"train_columns", result.Train.NumCols(),
		"test_rows", result.Test.NumRows(),
		"test_columns", result.Test.NumCols())
	for _, stage := range p.Stages() {
		slog.Info("Stage summary",
			"stage", stage.Name,
			"status", string(stage.Status),
			"duration", stage.Duration())
	}
}

// loadConfig merges command-line flags over the environment/file config.
// Flags win when given.
func loadConfig(configFile, dataDir, outDir string, persist, persistSet bool) (*config.Config, error) {
	if dataDir != "" {
		os.Setenv("CRF_DATA_DIR", dataDir)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if persistSet {
		cfg.Output.Persist = persist
	}
	return cfg, nil
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
