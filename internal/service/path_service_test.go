package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
	"github.com/mincheolkk/atdd-subway-path/internal/logging"
	"github.com/mincheolkk/atdd-subway-path/internal/pathfinder"
)

type pathFixture struct {
	paths    *PathService
	repo     *memRepository
	stations map[string]domain.Station
}

// newPathFixture builds 교대-강남-양재 on line 2 (10, 10) and 교대-남부터미널-양재
// on line 3 (2, 3), plus an isolated 잠실역.
func newPathFixture(t *testing.T) pathFixture {
	t.Helper()
	repo := newMemRepository()
	cache := pathfinder.NewGraphCache(repo, logging.Discard())
	network := NewNetworkService(repo, cache, logging.Discard())

	byName := make(map[string]domain.Station)
	for _, st := range seedStations(t, network, "교대역", "강남역", "양재역", "남부터미널역", "잠실역") {
		byName[st.Name] = st
	}
	id := func(name string) int64 { return byName[name].ID }

	for _, l := range []struct {
		name     string
		up, down string
		distance int64
		next     string
		nextDist int64
	}{
		{"2호선", "교대역", "강남역", 10, "양재역", 10},
		{"3호선", "교대역", "남부터미널역", 2, "양재역", 3},
	} {
		line, err := network.CreateLine(context.Background(), LineRequest{
			Name: l.name, UpStationID: id(l.up), DownStationID: id(l.down), Distance: l.distance,
		})
		if err != nil {
			t.Fatalf("create %s: %v", l.name, err)
		}
		if _, err := network.AddSection(context.Background(), line.ID, SectionRequest{
			UpStationID: id(l.down), DownStationID: id(l.next), Distance: l.nextDist,
		}); err != nil {
			t.Fatalf("extend %s: %v", l.name, err)
		}
	}
	return pathFixture{paths: NewPathService(repo, cache), repo: repo, stations: byName}
}

func TestPathService_FindPath(t *testing.T) {
	f := newPathFixture(t)

	res, err := f.paths.FindPath(context.Background(), f.stations["강남역"].ID, f.stations["남부터미널역"].ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Distance != 12 {
		t.Fatalf("expected distance 12, got %d", res.Distance)
	}
	var names []string
	for _, st := range res.Stations {
		names = append(names, st.Name)
	}
	if len(names) != 3 || names[0] != "강남역" || names[1] != "교대역" || names[2] != "남부터미널역" {
		t.Fatalf("unexpected route %v", names)
	}
}

func TestPathService_ErrorPrecedence(t *testing.T) {
	f := newPathFixture(t)
	gangnam := f.stations["강남역"].ID
	jamsil := f.stations["잠실역"].ID

	tests := []struct {
		name           string
		source, target int64
		want           error
	}{
		{"unknown source", 999, gangnam, domain.ErrNotFound},
		{"unknown target", gangnam, 999, domain.ErrNotFound},
		{"unknown source and target equal", 999, 999, domain.ErrNotFound},
		{"same station", gangnam, gangnam, pathfinder.ErrSameStation},
		{"isolated same station", jamsil, jamsil, pathfinder.ErrSameStation},
		{"not connected", gangnam, jamsil, pathfinder.ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.paths.FindPath(context.Background(), tt.source, tt.target); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPathService_GraphLoadFailure(t *testing.T) {
	f := newPathFixture(t)
	boom := errors.New("section scan failed")

	cache := pathfinder.NewGraphCache(f.repo, logging.Discard())
	paths := NewPathService(f.repo, cache)
	f.repo.failSectionListing(boom, 1)

	if _, err := paths.FindPath(context.Background(), f.stations["강남역"].ID, f.stations["양재역"].ID); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	res, err := paths.FindPath(context.Background(), f.stations["강남역"].ID, f.stations["양재역"].ID)
	if err != nil {
		t.Fatalf("expected the next query to reload, got %v", err)
	}
	if res.Distance != 10 {
		t.Fatalf("expected distance 10, got %d", res.Distance)
	}
}
