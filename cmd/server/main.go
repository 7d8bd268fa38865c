package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mincheolkk/atdd-subway-path/internal/config"
	"github.com/mincheolkk/atdd-subway-path/internal/logging"
	"github.com/mincheolkk/atdd-subway-path/internal/pathfinder"
	"github.com/mincheolkk/atdd-subway-path/internal/server"
	"github.com/mincheolkk/atdd-subway-path/internal/service"
	"github.com/mincheolkk/atdd-subway-path/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	graphs := pathfinder.NewGraphCache(repo, logger.With("component", "pathfinder"))
	if err := graphs.Rebuild(ctx); err != nil {
		// queries retry the build lazily
		logger.Warn("initial graph build failed", "error", err)
	} else {
		stats := graphs.Stats()
		logger.Info("path graph ready", "stations", stats.Stations, "sections", stats.Sections)
	}

	network := service.NewNetworkService(repo, graphs, logger)
	paths := service.NewPathService(repo, graphs)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: repo},
		API:              server.NewAPIHandlers(logger, network, paths),
		GraphStats:       graphs.Stats,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	if err := server.New(logger, cfg.HTTP, router).Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
