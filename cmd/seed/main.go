package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/caremesh-dev/shift-roster/internal/seed"
)

func main() {
	var (
		dir       = flag.String("dir", "./data", "directory to write the dataset into")
		staffSize = flag.Int("staff", 20, "number of staff members to generate")
		days      = flag.Int("days", 14, "number of days to generate shifts for")
		rngSeed   = flag.Int64("seed", 1, "random seed")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := seed.Generate(seed.Options{
		Dir:       *dir,
		StaffSize: *staffSize,
		Days:      *days,
		Seed:      *rngSeed,
	}); err != nil {
		logger.Error("failed to generate dataset", "error", err)
		os.Exit(1)
	}

	logger.Info("dataset generated", "dir", *dir, "staff", *staffSize, "days", *days)
}
