// Package store opens the network repository selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mincheolkk/atdd-subway-path/internal/config"
	"github.com/mincheolkk/atdd-subway-path/internal/db"
	"github.com/mincheolkk/atdd-subway-path/internal/graph"
	"github.com/mincheolkk/atdd-subway-path/internal/repository"
	"github.com/mincheolkk/atdd-subway-path/internal/service"
)

// Store is a network repository that can be health checked.
type Store interface {
	service.NetworkRepository
	Ping(ctx context.Context) error
}

// CloseFunc releases the store's connections.
type CloseFunc func(ctx context.Context) error

// Open connects to the configured backend and verifies it is reachable.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, CloseFunc, error) {
	switch cfg.Store.Driver {
	case config.DriverNeo4j:
		client, err := openGraph(ctx, cfg.Graph)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
		return repository.New(client), client.Close, nil

	case config.DriverMySQL:
		conn, err := db.Connect(ctx, cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx, conn, logger, cfg.MySQL.SkipSchema); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		logger.Info("connected to mysql", "host", cfg.MySQL.Host, "database", cfg.MySQL.Database)
		return repository.NewSQL(conn), func(context.Context) error { return conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func openGraph(ctx context.Context, cfg config.GraphConfig) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, graph.ErrMissingURI
	}
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}
	return client, nil
}
