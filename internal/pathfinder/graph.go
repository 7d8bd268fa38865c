package pathfinder

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

// Graph is an undirected weighted multigraph over station ids. Every section
// contributes one line, so stations shared by several subway lines keep all
// of their parallel connections.
type Graph struct {
	g        *multi.WeightedUndirectedGraph
	sections int
	negative bool
}

// BuildGraph translates sections into a new graph. The input is not
// validated or modified.
func BuildGraph(sections []domain.Section) *Graph {
	g := multi.NewWeightedUndirectedGraph()
	// The multigraph sums parallel lines by default; a traveller only ever
	// rides the shortest one.
	g.EdgeWeightFunc = shortestLine

	built := &Graph{g: g}
	for _, s := range sections {
		up := stationNode(g, s.UpStationID)
		down := stationNode(g, s.DownStationID)
		if s.UpStationID == s.DownStationID {
			continue
		}
		g.SetWeightedLine(g.NewWeightedLine(up, down, float64(s.Distance)))
		built.sections++
		if s.Distance < 0 {
			built.negative = true
		}
	}
	return built
}

// HasStation reports whether the station appears in any section.
func (g *Graph) HasStation(id int64) bool {
	return g != nil && g.g.Node(id) != nil
}

// StationCount returns the number of vertices.
func (g *Graph) StationCount() int {
	if g == nil {
		return 0
	}
	return g.g.Nodes().Len()
}

// SectionCount returns the number of edges, parallel ones included.
func (g *Graph) SectionCount() int {
	if g == nil {
		return 0
	}
	return g.sections
}

func stationNode(g *multi.WeightedUndirectedGraph, id int64) graph.Node {
	if n := g.Node(id); n != nil {
		return n
	}
	n := multi.Node(id)
	g.AddNode(n)
	return n
}

func shortestLine(lines graph.WeightedLines) float64 {
	w := math.Inf(1)
	if lines == nil {
		return w
	}
	for lines.Next() {
		if lw := lines.WeightedLine().Weight(); lw < w {
			w = lw
		}
	}
	return w
}
