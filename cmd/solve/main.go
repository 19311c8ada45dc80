package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caremesh-dev/shift-roster/internal/dataset"
	"github.com/caremesh-dev/shift-roster/internal/engine"
)

// solve runs the scheduler once against a dataset directory and writes the
// assignments as JSON, without needing the API server or its backing services.
func main() {
	var (
		dataDir = flag.String("data", "./data", "directory holding staff.json, shifts.json and constraints.json")
		outFile = flag.String("out", "output/assignments.json", "file to write the assignments to")
		mode    = flag.String("mode", "", "strictness mode, strict or lenient")
		budget  = flag.Duration("budget", 10*time.Second, "search time budget")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ds, err := dataset.Load(*dataDir)
	if err != nil {
		logger.Error("dataset is not usable", "error", err)
		os.Exit(1)
	}

	eng, err := engine.New(logger, ds.Staff, ds.Shifts, ds.Constraints, engine.Options{
		Mode:       engine.Mode(*mode),
		TimeBudget: *budget,
	})
	if err != nil {
		logger.Error("failed to set up scheduling run", "error", err)
		os.Exit(1)
	}

	roster, err := eng.Run(context.Background())
	if err != nil {
		var cfgErr *engine.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			logger.Error("requirements cannot be met", "shift", cfgErr.ShiftID, "role", cfgErr.Role, "detail", cfgErr.Error())
		case errors.Is(err, engine.ErrNoSchedule):
			logger.Error("no feasible roster could be found", "mode", *mode, "budget", *budget)
		default:
			logger.Error("scheduling run failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("roster generated",
		"run_id", roster.RunID,
		"status", roster.Status,
		"objective", roster.Objective,
		"shortages", len(roster.Shortages),
		"duration", roster.SolveDuration,
	)

	if err := os.MkdirAll(filepath.Dir(*outFile), 0o755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(roster.Shifts, "", "  ")
	if err != nil {
		logger.Error("failed to encode assignments", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outFile, data, 0o644); err != nil {
		logger.Error("failed to write assignments", "error", err)
		os.Exit(1)
	}

	logger.Info("assignments written", "file", *outFile)
}
