package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mincheolkk/atdd-subway-path/internal/config"
	"github.com/mincheolkk/atdd-subway-path/internal/generator"
	"github.com/mincheolkk/atdd-subway-path/internal/logging"
	"github.com/mincheolkk/atdd-subway-path/internal/service"
	"github.com/mincheolkk/atdd-subway-path/internal/store"
)

func main() {
	var (
		datasetPath = flag.String("dataset", "./seed-data/network.yaml", "Path to the network dataset (.yaml, .yml or .json)")
		workers     = flag.Int("workers", 4, "Number of concurrent workers for station and line creation")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	network, err := generator.ReadNetwork(*datasetPath)
	if err != nil {
		logger.Error("failed to read dataset", "error", err, "path", *datasetPath)
		os.Exit(1)
	}
	if len(network.Stations) == 0 && len(network.Lines) == 0 {
		logger.Error("dataset empty", "path", *datasetPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	// no routing graph here; the server builds its own on start
	svc := service.NewNetworkService(repo, nil, logger)
	loader := service.NewBulkLoader(svc, *workers, logger)

	start := time.Now()
	logger.Info("seeding network", "stations", len(network.Stations), "lines", len(network.Lines), "workers", *workers)
	report, err := loader.Load(ctx, network)
	if err != nil {
		logger.Error("seeding finished with errors", "error", err,
			"stations", report.Stations, "lines", report.Lines, "sections", report.Sections)
		os.Exit(1)
	}

	logger.Info("seeding complete",
		"duration", time.Since(start).String(),
		"stations", report.Stations,
		"lines", report.Lines,
		"sections", report.Sections,
	)
}
