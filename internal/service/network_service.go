package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

// NetworkRepository is the storage contract for stations, lines and sections.
type NetworkRepository interface {
	CreateStation(ctx context.Context, name string) (domain.Station, error)
	FindStation(ctx context.Context, id int64) (domain.Station, error)
	ListStations(ctx context.Context) ([]domain.Station, error)
	DeleteStation(ctx context.Context, id int64) error
	CreateLine(ctx context.Context, line domain.Line) (domain.Line, error)
	FindLine(ctx context.Context, id int64) (domain.Line, error)
	ListLines(ctx context.Context) ([]domain.Line, error)
	DeleteLine(ctx context.Context, id int64) error
	SaveSections(ctx context.Context, lineID int64, sections []domain.Section) ([]domain.Section, error)
	ListSections(ctx context.Context) ([]domain.Section, error)
}

// GraphRebuilder refreshes the routing graph after the section set changes.
type GraphRebuilder interface {
	Rebuild(ctx context.Context) error
	Invalidate()
}

// NetworkService manages stations, lines and sections. Topology mutations are
// serialised and rebuild the routing graph before returning.
type NetworkService struct {
	repo   NetworkRepository
	graphs GraphRebuilder
	logger *slog.Logger
	mu     sync.Mutex
}

// NewNetworkService wires the service. graphs may be nil when no routing
// graph is maintained.
func NewNetworkService(repo NetworkRepository, graphs GraphRebuilder, logger *slog.Logger) *NetworkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkService{
		repo:   repo,
		graphs: graphs,
		logger: logger.With("component", "network"),
	}
}

func (s *NetworkService) CreateStation(ctx context.Context, name string) (domain.Station, error) {
	name, err := normalizeName("name", name)
	if err != nil {
		return domain.Station{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.ListStations(ctx)
	if err != nil {
		return domain.Station{}, err
	}
	for _, st := range existing {
		if sameName(st.Name, name) {
			return domain.Station{}, fmt.Errorf("station %q: %w", name, domain.ErrDuplicateName)
		}
	}
	return s.repo.CreateStation(ctx, name)
}

func (s *NetworkService) FindStation(ctx context.Context, id int64) (domain.Station, error) {
	return s.repo.FindStation(ctx, id)
}

func (s *NetworkService) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.repo.ListStations(ctx)
}

// DeleteStation removes a station that no section refers to.
func (s *NetworkService) DeleteStation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections, err := s.repo.ListSections(ctx)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		if sec.UpStationID == id || sec.DownStationID == id {
			return fmt.Errorf("station %d is on line %d: %w", id, sec.LineID, domain.ErrStationInUse)
		}
	}
	return s.repo.DeleteStation(ctx, id)
}

// CreateLine creates a line together with its first section.
func (s *NetworkService) CreateLine(ctx context.Context, req LineRequest) (domain.Line, error) {
	name, err := normalizeName("name", req.Name)
	if err != nil {
		return domain.Line{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.ListLines(ctx)
	if err != nil {
		return domain.Line{}, err
	}
	for _, l := range lines {
		if sameName(l.Name, name) {
			return domain.Line{}, fmt.Errorf("line %q: %w", name, domain.ErrDuplicateName)
		}
	}
	if err := s.requireStations(ctx, req.UpStationID, req.DownStationID); err != nil {
		return domain.Line{}, err
	}

	line := domain.Line{Name: name, Color: normalizeColor(req.Color)}
	if err := line.AddSection(domain.Section{
		UpStationID:   req.UpStationID,
		DownStationID: req.DownStationID,
		Distance:      req.Distance,
	}); err != nil {
		return domain.Line{}, err
	}

	created, err := s.repo.CreateLine(ctx, line)
	if err != nil {
		return domain.Line{}, err
	}
	s.rebuild(ctx, "line created", "line_id", created.ID)
	return created, nil
}

func (s *NetworkService) FindLine(ctx context.Context, id int64) (domain.Line, error) {
	return s.repo.FindLine(ctx, id)
}

func (s *NetworkService) ListLines(ctx context.Context) ([]domain.Line, error) {
	return s.repo.ListLines(ctx)
}

func (s *NetworkService) DeleteLine(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteLine(ctx, id); err != nil {
		return err
	}
	s.rebuild(ctx, "line deleted", "line_id", id)
	return nil
}

// AddSection registers a section on the line and returns the updated line.
func (s *NetworkService) AddSection(ctx context.Context, lineID int64, req SectionRequest) (domain.Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return domain.Line{}, err
	}
	if err := s.requireStations(ctx, req.UpStationID, req.DownStationID); err != nil {
		return domain.Line{}, err
	}
	if err := line.AddSection(domain.Section{
		UpStationID:   req.UpStationID,
		DownStationID: req.DownStationID,
		Distance:      req.Distance,
	}); err != nil {
		return domain.Line{}, err
	}

	saved, err := s.repo.SaveSections(ctx, line.ID, line.Sections)
	if err != nil {
		return domain.Line{}, err
	}
	line.Sections = saved
	s.rebuild(ctx, "section added", "line_id", line.ID, "up", req.UpStationID, "down", req.DownStationID)
	return line, nil
}

// RemoveSection removes the line's downstream terminal station.
func (s *NetworkService) RemoveSection(ctx context.Context, lineID, stationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := line.RemoveStation(stationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("station %d on line %d: %w", stationID, lineID, err)
		}
		return err
	}
	if _, err := s.repo.SaveSections(ctx, line.ID, line.Sections); err != nil {
		return err
	}
	s.rebuild(ctx, "section removed", "line_id", line.ID, "station_id", stationID)
	return nil
}

func (s *NetworkService) requireStations(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if id <= 0 {
			return invalid("stationId", "must be positive")
		}
		if _, err := s.repo.FindStation(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// rebuild must be called with s.mu held. A failed rebuild only invalidates the
// cache; the write itself already succeeded.
func (s *NetworkService) rebuild(ctx context.Context, msg string, args ...any) {
	if s.graphs == nil {
		return
	}
	if err := s.graphs.Rebuild(ctx); err != nil {
		s.graphs.Invalidate()
		s.logger.Warn("graph rebuild failed, cache invalidated", append(args, "event", msg, "error", err)...)
		return
	}
	s.logger.Debug(msg, args...)
}
