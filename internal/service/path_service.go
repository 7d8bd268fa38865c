package service

import (
	"context"
	"fmt"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
	"github.com/mincheolkk/atdd-subway-path/internal/pathfinder"
)

// StationReader looks stations up for path queries.
type StationReader interface {
	FindStation(ctx context.Context, id int64) (domain.Station, error)
	ListStations(ctx context.Context) ([]domain.Station, error)
}

// GraphProvider hands out the current routing graph.
type GraphProvider interface {
	Graph(ctx context.Context) (*pathfinder.Graph, error)
}

// PathService answers shortest path queries between stations.
type PathService struct {
	stations StationReader
	graphs   GraphProvider
}

func NewPathService(stations StationReader, graphs GraphProvider) *PathService {
	return &PathService{stations: stations, graphs: graphs}
}

// FindPath returns the shortest path from source to target. Unknown stations
// fail with domain.ErrNotFound before any routing is attempted.
func (s *PathService) FindPath(ctx context.Context, source, target int64) (PathResult, error) {
	if _, err := s.stations.FindStation(ctx, source); err != nil {
		return PathResult{}, fmt.Errorf("source: %w", err)
	}
	if _, err := s.stations.FindStation(ctx, target); err != nil {
		return PathResult{}, fmt.Errorf("target: %w", err)
	}
	if source == target {
		return PathResult{}, pathfinder.ErrSameStation
	}

	g, err := s.graphs.Graph(ctx)
	if err != nil {
		return PathResult{}, err
	}
	p, err := pathfinder.FindShortestPath(g, source, target)
	if err != nil {
		return PathResult{}, err
	}

	all, err := s.stations.ListStations(ctx)
	if err != nil {
		return PathResult{}, err
	}
	byID := make(map[int64]domain.Station, len(all))
	for _, st := range all {
		byID[st.ID] = st
	}

	stations := make([]domain.Station, 0, len(p.StationIDs))
	for _, id := range p.StationIDs {
		st, ok := byID[id]
		if !ok {
			// deleted after the graph was built
			st = domain.Station{ID: id}
		}
		stations = append(stations, st)
	}
	return PathResult{Stations: stations, Distance: p.Distance}, nil
}
