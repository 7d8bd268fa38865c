package domain

import (
	"errors"
	"slices"
	"testing"
)

func newLine(t *testing.T, up, down, distance int64) *Line {
	t.Helper()
	line := &Line{ID: 1, Name: "2호선", Color: "green"}
	if err := line.AddSection(Section{UpStationID: up, DownStationID: down, Distance: distance}); err != nil {
		t.Fatalf("initial section: %v", err)
	}
	return line
}

func TestLine_AddSectionExtendsTerminals(t *testing.T) {
	line := newLine(t, 1, 2, 10)

	if err := line.AddSection(Section{UpStationID: 2, DownStationID: 3, Distance: 5}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := line.AddSection(Section{UpStationID: 0, DownStationID: 1, Distance: 7}); err != nil {
		t.Fatalf("prepend: %v", err)
	}

	want := []int64{0, 1, 2, 3}
	if got := line.StationIDs(); !slices.Equal(got, want) {
		t.Fatalf("expected stations %v, got %v", want, got)
	}
	for _, s := range line.Sections {
		if s.LineID != line.ID {
			t.Errorf("section %v not stamped with line id", s)
		}
	}
}

func TestLine_AddSectionSplitsFromUpStation(t *testing.T) {
	line := newLine(t, 1, 2, 10)
	line.Sections[0].ID = 99

	if err := line.AddSection(Section{UpStationID: 1, DownStationID: 3, Distance: 4}); err != nil {
		t.Fatalf("split: %v", err)
	}

	want := []int64{1, 3, 2}
	if got := line.StationIDs(); !slices.Equal(got, want) {
		t.Fatalf("expected stations %v, got %v", want, got)
	}
	if line.Sections[0].Distance != 4 || line.Sections[1].Distance != 6 {
		t.Fatalf("unexpected distances %d and %d", line.Sections[0].Distance, line.Sections[1].Distance)
	}
	if line.Sections[0].ID != 99 || line.Sections[1].ID != 0 {
		t.Fatalf("expected the first half to keep the original id, got %d and %d", line.Sections[0].ID, line.Sections[1].ID)
	}
}

func TestLine_AddSectionSplitsFromDownStation(t *testing.T) {
	line := newLine(t, 1, 2, 10)

	if err := line.AddSection(Section{UpStationID: 3, DownStationID: 2, Distance: 3}); err != nil {
		t.Fatalf("split: %v", err)
	}

	want := []int64{1, 3, 2}
	if got := line.StationIDs(); !slices.Equal(got, want) {
		t.Fatalf("expected stations %v, got %v", want, got)
	}
	if line.Sections[0].Distance != 7 || line.Sections[1].Distance != 3 {
		t.Fatalf("unexpected distances %d and %d", line.Sections[0].Distance, line.Sections[1].Distance)
	}
}

func TestLine_AddSectionRejections(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    error
	}{
		{"same station", Section{UpStationID: 1, DownStationID: 1, Distance: 3}, ErrInvalidSection},
		{"zero distance", Section{UpStationID: 2, DownStationID: 3, Distance: 0}, ErrInvalidDistance},
		{"already registered", Section{UpStationID: 2, DownStationID: 1, Distance: 3}, ErrSectionAlreadyRegistered},
		{"not connected", Section{UpStationID: 8, DownStationID: 9, Distance: 3}, ErrSectionNotConnected},
		{"split too long", Section{UpStationID: 1, DownStationID: 5, Distance: 10}, ErrInvalidDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := newLine(t, 1, 2, 10)
			if err := line.AddSection(tt.section); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(line.Sections) != 1 {
				t.Fatalf("rejected section must not change the line, got %d sections", len(line.Sections))
			}
		})
	}
}

func TestLine_RemoveStation(t *testing.T) {
	line := newLine(t, 1, 2, 10)
	if err := line.RemoveStation(2); !errors.Is(err, ErrSingleSection) {
		t.Fatalf("expected ErrSingleSection, got %v", err)
	}

	if err := line.AddSection(Section{UpStationID: 2, DownStationID: 3, Distance: 5}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := line.RemoveStation(2); !errors.Is(err, ErrNotTerminalStation) {
		t.Fatalf("expected ErrNotTerminalStation, got %v", err)
	}
	if err := line.RemoveStation(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := line.RemoveStation(3); err != nil {
		t.Fatalf("remove terminal: %v", err)
	}
	if got := line.StationIDs(); !slices.Equal(got, []int64{1, 2}) {
		t.Fatalf("unexpected stations after removal: %v", got)
	}
}

func TestPath_Endpoints(t *testing.T) {
	p := Path{StationIDs: []int64{4, 5, 6}, Distance: 9}
	if p.Source() != 4 || p.Target() != 6 {
		t.Fatalf("unexpected endpoints %d -> %d", p.Source(), p.Target())
	}
	if (Path{}).Source() != 0 || (Path{}).Target() != 0 {
		t.Fatal("empty path must report zero endpoints")
	}
}
