package pathfinder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

// SectionSource supplies the complete current set of sections.
type SectionSource interface {
	ListSections(ctx context.Context) ([]domain.Section, error)
}

// CacheStats describes the graph currently held by a GraphCache.
type CacheStats struct {
	Built    bool
	Stations int
	Sections int
	BuiltAt  time.Time
}

// GraphCache owns the graph shared by path queries. Writers that change the
// section set must call Rebuild (or Invalidate) before reporting success so
// that no later query observes the old topology.
type GraphCache struct {
	source SectionSource
	logger *slog.Logger
	nowFn  func() time.Time

	mu      sync.RWMutex
	graph   *Graph
	builtAt time.Time
}

// NewGraphCache creates an empty cache. The first Graph call builds it.
func NewGraphCache(source SectionSource, logger *slog.Logger) *GraphCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphCache{
		source: source,
		logger: logger,
		nowFn:  time.Now,
	}
}

// Graph returns the cached graph, building it on first use.
func (c *GraphCache) Graph(ctx context.Context) (*Graph, error) {
	c.mu.RLock()
	g := c.graph
	c.mu.RUnlock()
	if g != nil {
		return g, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.graph != nil {
		return c.graph, nil
	}
	if err := c.rebuildLocked(ctx); err != nil {
		return nil, err
	}
	return c.graph, nil
}

// Rebuild reloads every section and replaces the cached graph. Queries
// issued while the rebuild runs wait for it to finish.
func (c *GraphCache) Rebuild(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuildLocked(ctx)
}

// Invalidate drops the cached graph; the next query rebuilds it.
func (c *GraphCache) Invalidate() {
	c.mu.Lock()
	c.graph = nil
	c.builtAt = time.Time{}
	c.mu.Unlock()
}

// Stats reports the size and age of the cached graph.
func (c *GraphCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.graph == nil {
		return CacheStats{}
	}
	return CacheStats{
		Built:    true,
		Stations: c.graph.StationCount(),
		Sections: c.graph.SectionCount(),
		BuiltAt:  c.builtAt,
	}
}

func (c *GraphCache) rebuildLocked(ctx context.Context) error {
	sections, err := c.source.ListSections(ctx)
	if err != nil {
		c.graph = nil
		return fmt.Errorf("load sections: %w", err)
	}
	c.graph = BuildGraph(sections)
	c.builtAt = c.nowFn()
	c.logger.Debug("path graph rebuilt",
		"stations", c.graph.StationCount(),
		"sections", c.graph.SectionCount(),
	)
	return nil
}
