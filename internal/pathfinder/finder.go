// Package pathfinder answers shortest-path queries over the subway network.
package pathfinder

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/graph/path"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

var (
	// ErrSameStation reports a query whose source and target are the same station.
	ErrSameStation = errors.New("source and target stations are the same")
	// ErrNotConnected reports a query whose stations are not linked by any route.
	ErrNotConnected = errors.New("source and target stations are not connected")
	// ErrNegativeDistance reports a graph holding a section shorter than zero,
	// which Dijkstra cannot search.
	ErrNegativeDistance = errors.New("graph contains a negative section distance")
)

// FindShortestPath returns the minimal-distance route between two stations.
// Identical ids fail with ErrSameStation whether or not the station is part
// of the graph; stations outside the graph are unreachable.
func FindShortestPath(g *Graph, source, target int64) (domain.Path, error) {
	if source == target {
		return domain.Path{}, ErrSameStation
	}
	if !g.HasStation(source) || !g.HasStation(target) {
		return domain.Path{}, ErrNotConnected
	}
	if g.negative {
		return domain.Path{}, ErrNegativeDistance
	}

	shortest := path.DijkstraFrom(g.g.Node(source), g.g)
	nodes, weight := shortest.To(target)
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return domain.Path{}, ErrNotConnected
	}
	if weight == 0 {
		return domain.Path{}, ErrSameStation
	}

	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return domain.Path{
		StationIDs: ids,
		Distance:   int64(weight),
	}, nil
}
