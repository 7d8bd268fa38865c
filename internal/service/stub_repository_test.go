package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

// memRepository is an in-memory NetworkRepository.
type memRepository struct {
	mu          sync.Mutex
	stations    map[int64]domain.Station
	lines       map[int64]domain.Line
	nextID      int64
	sectionErr  error
	saveCalls   int
	listSecErrs int
}

func newMemRepository() *memRepository {
	return &memRepository{
		stations: make(map[int64]domain.Station),
		lines:    make(map[int64]domain.Line),
	}
}

func (r *memRepository) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepository) CreateStation(_ context.Context, name string) (domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := domain.Station{ID: r.id(), Name: name}
	r.stations[st.ID] = st
	return st, nil
}

func (r *memRepository) FindStation(_ context.Context, id int64) (domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[id]
	if !ok {
		return domain.Station{}, fmt.Errorf("station %d: %w", id, domain.ErrNotFound)
	}
	return st, nil
}

func (r *memRepository) ListStations(context.Context) ([]domain.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Station, 0, len(r.stations))
	for _, st := range r.stations {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b domain.Station) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *memRepository) DeleteStation(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.stations, id)
	return nil
}

func (r *memRepository) CreateLine(_ context.Context, line domain.Line) (domain.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line.ID = r.id()
	line.Sections = r.stamp(line.ID, line.Sections)
	r.lines[line.ID] = line
	return cloneLine(line), nil
}

func (r *memRepository) FindLine(_ context.Context, id int64) (domain.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.lines[id]
	if !ok {
		return domain.Line{}, fmt.Errorf("line %d: %w", id, domain.ErrNotFound)
	}
	return cloneLine(line), nil
}

func (r *memRepository) ListLines(context.Context) ([]domain.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Line, 0, len(r.lines))
	for _, l := range r.lines {
		out = append(out, cloneLine(l))
	}
	slices.SortFunc(out, func(a, b domain.Line) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *memRepository) DeleteLine(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lines[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.lines, id)
	return nil
}

func (r *memRepository) SaveSections(_ context.Context, lineID int64, sections []domain.Section) ([]domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	line := r.lines[lineID]
	line.Sections = r.stamp(lineID, sections)
	r.lines[lineID] = line
	return slices.Clone(line.Sections), nil
}

func (r *memRepository) ListSections(context.Context) ([]domain.Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sectionErr != nil && r.listSecErrs > 0 {
		r.listSecErrs--
		return nil, r.sectionErr
	}
	var out []domain.Section
	for _, l := range r.lines {
		out = append(out, l.Sections...)
	}
	return out, nil
}

// failSectionListing makes the next n ListSections calls fail with err.
func (r *memRepository) failSectionListing(err error, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sectionErr = err
	r.listSecErrs = n
}

func (r *memRepository) stamp(lineID int64, sections []domain.Section) []domain.Section {
	out := slices.Clone(sections)
	for i := range out {
		out[i].LineID = lineID
		if out[i].ID == 0 {
			out[i].ID = r.id()
		}
	}
	return out
}

func cloneLine(l domain.Line) domain.Line {
	l.Sections = slices.Clone(l.Sections)
	return l
}
