package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mincheolkk/atdd-subway-path/internal/service"
)

// Generator produces synthetic subway networks. Each line is a chain of
// stations; transfer stations are shared between lines.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
	used      map[string]bool
}

type nameFragments struct {
	prefixes []string
	roots    []string
	colors   []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumLines <= 0 {
		cfg.NumLines = def.NumLines
	}
	if cfg.StationsPerLine < 2 {
		cfg.StationsPerLine = def.StationsPerLine
	}
	if cfg.TransferChance < 0 {
		cfg.TransferChance = 0
	}
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = def.MinDistance
	}
	if cfg.MaxDistance < cfg.MinDistance {
		cfg.MaxDistance = cfg.MinDistance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
		used:      make(map[string]bool),
	}
}

// Generate synthesises a network. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (service.NetworkInput, error) {
	var network service.NetworkInput

	for i := 0; i < g.cfg.NumLines; i++ {
		if err := ctx.Err(); err != nil {
			return service.NetworkInput{}, err
		}

		onLine := make(map[string]bool, g.cfg.StationsPerLine)
		chain := make([]string, 0, g.cfg.StationsPerLine)
		for len(chain) < g.cfg.StationsPerLine {
			name, ok := g.transferStation(network.Stations, onLine)
			if !ok {
				name = g.newStationName()
				network.Stations = append(network.Stations, name)
			}
			onLine[name] = true
			chain = append(chain, name)
		}

		line := service.LineInput{
			Name:     fmt.Sprintf("Line %d", i+1),
			Color:    g.fragments.colors[i%len(g.fragments.colors)],
			Sections: make([]service.SectionInput, 0, len(chain)-1),
		}
		for j := 1; j < len(chain); j++ {
			line.Sections = append(line.Sections, service.SectionInput{
				Up:       chain[j-1],
				Down:     chain[j],
				Distance: g.randomDistance(),
			})
		}
		network.Lines = append(network.Lines, line)
	}
	return network, nil
}

// transferStation picks an existing station not yet on the current line.
func (g *Generator) transferStation(existing []string, onLine map[string]bool) (string, bool) {
	if len(existing) == 0 || g.rand.Float64() >= g.cfg.TransferChance {
		return "", false
	}
	for attempt := 0; attempt < 8; attempt++ {
		name := existing[g.rand.Intn(len(existing))]
		if !onLine[name] {
			return name, true
		}
	}
	return "", false
}

func (g *Generator) newStationName() string {
	name := fmt.Sprintf("%s %s",
		g.fragments.prefixes[g.rand.Intn(len(g.fragments.prefixes))],
		g.fragments.roots[g.rand.Intn(len(g.fragments.roots))])
	candidate := name
	for n := 2; g.used[candidate]; n++ {
		candidate = fmt.Sprintf("%s %d", name, n)
	}
	g.used[candidate] = true
	return candidate
}

func (g *Generator) randomDistance() int64 {
	return g.cfg.MinDistance + g.rand.Int63n(g.cfg.MaxDistance-g.cfg.MinDistance+1)
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		prefixes: []string{"North", "South", "East", "West", "Old", "New", "Upper", "Lower", "Central", "Grand"},
		roots:    []string{"Harbor", "Market", "Park", "Bridge", "Garden", "Tower", "Valley", "Square", "Field", "Gate", "River", "Forest"},
		colors:   []string{"green", "orange", "blue", "purple", "brown", "red", "yellow", "navy", "teal"},
	}
}
