package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
	"github.com/mincheolkk/atdd-subway-path/internal/graph"
)

func TestGraphRepository_CreateStation(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"last": int64(3)}}})
	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"id": int64(3), "name": "강남역"}}})

	station, err := repo.CreateStation(context.Background(), "강남역")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if station.ID != 3 || station.Name != "강남역" {
		t.Fatalf("unexpected station %+v", station)
	}

	calls := mem.WriteCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 write queries, got %d", len(calls))
	}
	if calls[0].Query != reserveIDsCypher || calls[0].Params["name"] != stationSequence {
		t.Fatalf("expected id reservation first, got %q %v", calls[0].Query, calls[0].Params)
	}
	if calls[1].Query != createStationCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", createStationCypher, calls[1].Query)
	}
	if calls[1].Params["id"] != int64(3) {
		t.Errorf("expected id param 3, got %v", calls[1].Params["id"])
	}
}

func TestGraphRepository_FindStationNotFound(t *testing.T) {
	repo := New(graph.NewMemoryClient())

	_, err := repo.FindStation(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGraphRepository_CreateLineAssignsIDs(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"last": int64(2)}}})  // line id
	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"last": int64(11)}}}) // section ids 10..11

	line, err := repo.CreateLine(context.Background(), domain.Line{
		Name:  "신분당선",
		Color: "red",
		Sections: []domain.Section{
			{UpStationID: 1, DownStationID: 2, Distance: 10},
			{UpStationID: 2, DownStationID: 3, Distance: 7},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if line.ID != 2 {
		t.Fatalf("expected line id 2, got %d", line.ID)
	}
	if line.Sections[0].ID != 10 || line.Sections[1].ID != 11 {
		t.Fatalf("expected section ids 10 and 11, got %d and %d", line.Sections[0].ID, line.Sections[1].ID)
	}

	calls := mem.WriteCalls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 write queries, got %d", len(calls))
	}
	if calls[1].Params["count"] != int64(2) {
		t.Errorf("expected a block of 2 section ids, got %v", calls[1].Params["count"])
	}
	create := calls[2]
	if create.Query != createLineCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", createLineCypher, create.Query)
	}
	params, ok := create.Params["sections"].([]map[string]any)
	if !ok || len(params) != 2 {
		t.Fatalf("expected 2 section params, got %T", create.Params["sections"])
	}
	if params[1]["position"] != int64(1) || params[1]["upStationId"] != int64(2) {
		t.Errorf("unexpected second section params %v", params[1])
	}
}

func TestGraphRepository_SaveSectionsKeepsExistingIDs(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"last": int64(20)}}})

	sections, err := repo.SaveSections(context.Background(), 4, []domain.Section{
		{ID: 8, UpStationID: 1, DownStationID: 5, Distance: 3},
		{UpStationID: 5, DownStationID: 2, Distance: 4},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sections[0].ID != 8 || sections[1].ID != 20 {
		t.Fatalf("unexpected ids %d and %d", sections[0].ID, sections[1].ID)
	}
	for _, s := range sections {
		if s.LineID != 4 {
			t.Fatalf("expected line id 4, got %d", s.LineID)
		}
	}

	calls := mem.WriteCalls()
	if last := calls[len(calls)-1]; last.Query != saveSectionsCypher || last.Params["lineId"] != int64(4) {
		t.Fatalf("unexpected save query %q %v", last.Query, last.Params)
	}
}

func TestGraphRepository_FindLineDecodesSections(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{{
		"id":    int64(1),
		"name":  "2호선",
		"color": "green",
		"sections": []any{
			map[string]any{"id": int64(1), "upStationId": int64(1), "downStationId": int64(2), "distance": int64(10)},
			map[string]any{"id": int64(2), "upStationId": int64(2), "downStationId": int64(3), "distance": int64(5)},
		},
	}}})

	line, err := repo.FindLine(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if line.Name != "2호선" || len(line.Sections) != 2 {
		t.Fatalf("unexpected line %+v", line)
	}
	if got := line.StationIDs(); len(got) != 3 || got[2] != 3 {
		t.Fatalf("unexpected station order %v", got)
	}
	if line.Sections[1].LineID != 1 {
		t.Fatalf("expected sections stamped with line id, got %d", line.Sections[1].LineID)
	}
}

func TestGraphRepository_ListSections(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"id": int64(1), "lineId": int64(1), "upStationId": int64(1), "downStationId": int64(2), "distance": int64(5)},
		{"id": int64(2), "lineId": int64(2), "upStationId": int64(1), "downStationId": int64(2), "distance": int64(8)},
	}})

	sections, err := repo.ListSections(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sections) != 2 || sections[1].Distance != 8 || sections[1].LineID != 2 {
		t.Fatalf("unexpected sections %+v", sections)
	}
	if calls := mem.ReadCalls(); calls[0].Query != listSectionsCypher {
		t.Fatalf("unexpected query %q", calls[0].Query)
	}
}

func TestGraphRepository_DeleteReportsMissing(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"deleted": int64(0)}}})
	if err := repo.DeleteStation(context.Background(), 9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for station, got %v", err)
	}

	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"deleted": int64(1)}}})
	if err := repo.DeleteLine(context.Background(), 1); err != nil {
		t.Fatalf("expected line deletion to succeed, got %v", err)
	}
}

func TestGraphRepository_PropagatesClientErrors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := New(graph.NewMemoryClient().WithError(boom))

	if _, err := repo.ListStations(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
	if _, err := repo.CreateStation(context.Background(), "잠실역"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}
