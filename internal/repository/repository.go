package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
	"github.com/mincheolkk/atdd-subway-path/internal/graph"
)

const (
	stationSequence = "station"
	lineSequence    = "line"
	sectionSequence = "section"
)

// GraphRepository persists the subway network in Neo4j. Stations and lines are
// nodes; every section is a SECTION relationship between two stations carrying
// its line id, distance and position within the line.
type GraphRepository struct {
	client graph.Client
}

// New instantiates a GraphRepository backed by the supplied graph client.
func New(client graph.Client) *GraphRepository {
	return &GraphRepository{client: client}
}

// Ping verifies the database is reachable.
func (r *GraphRepository) Ping(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

// CreateStation stores a new station and returns it with its assigned id.
func (r *GraphRepository) CreateStation(ctx context.Context, name string) (domain.Station, error) {
	if name == "" {
		return domain.Station{}, errors.New("station name is required")
	}
	id, err := r.reserveIDs(ctx, stationSequence, 1)
	if err != nil {
		return domain.Station{}, err
	}

	res, err := r.client.ExecuteWrite(ctx, createStationCypher, map[string]any{
		"id":   id,
		"name": name,
	})
	if err != nil {
		return domain.Station{}, fmt.Errorf("create station %q: %w", name, err)
	}
	rec, ok := res.Single()
	if !ok {
		return domain.Station{ID: id, Name: name}, nil
	}
	return decodeStation(rec), nil
}

// FindStation returns the station with the given id or domain.ErrNotFound.
func (r *GraphRepository) FindStation(ctx context.Context, id int64) (domain.Station, error) {
	res, err := r.client.ExecuteRead(ctx, findStationCypher, map[string]any{"id": id})
	if err != nil {
		return domain.Station{}, fmt.Errorf("find station %d: %w", id, err)
	}
	rec, ok := res.Single()
	if !ok {
		return domain.Station{}, fmt.Errorf("station %d: %w", id, domain.ErrNotFound)
	}
	return decodeStation(rec), nil
}

// ListStations returns every station ordered by id.
func (r *GraphRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	res, err := r.client.ExecuteRead(ctx, listStationsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	stations := make([]domain.Station, 0, len(res.Records))
	for _, rec := range res.Records {
		stations = append(stations, decodeStation(rec))
	}
	return stations, nil
}

// DeleteStation removes the station node.
func (r *GraphRepository) DeleteStation(ctx context.Context, id int64) error {
	res, err := r.client.ExecuteWrite(ctx, deleteStationCypher, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete station %d: %w", id, err)
	}
	if rec, ok := res.Single(); !ok || rec.Int64("deleted") == 0 {
		return fmt.Errorf("station %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CreateLine stores the line together with its initial sections.
func (r *GraphRepository) CreateLine(ctx context.Context, line domain.Line) (domain.Line, error) {
	if line.Name == "" {
		return domain.Line{}, errors.New("line name is required")
	}
	id, err := r.reserveIDs(ctx, lineSequence, 1)
	if err != nil {
		return domain.Line{}, err
	}
	line.ID = id

	sections, err := r.assignSectionIDs(ctx, id, line.Sections)
	if err != nil {
		return domain.Line{}, err
	}
	line.Sections = sections

	_, err = r.client.ExecuteWrite(ctx, createLineCypher, map[string]any{
		"id":       line.ID,
		"name":     line.Name,
		"color":    line.Color,
		"sections": sectionParams(line.Sections),
	})
	if err != nil {
		return domain.Line{}, fmt.Errorf("create line %q: %w", line.Name, err)
	}
	return line, nil
}

// FindLine returns the line with its sections in travel order.
func (r *GraphRepository) FindLine(ctx context.Context, id int64) (domain.Line, error) {
	res, err := r.client.ExecuteRead(ctx, findLineCypher, map[string]any{"id": id})
	if err != nil {
		return domain.Line{}, fmt.Errorf("find line %d: %w", id, err)
	}
	rec, ok := res.Single()
	if !ok {
		return domain.Line{}, fmt.Errorf("line %d: %w", id, domain.ErrNotFound)
	}
	return decodeLine(rec), nil
}

// ListLines returns every line ordered by id.
func (r *GraphRepository) ListLines(ctx context.Context) ([]domain.Line, error) {
	res, err := r.client.ExecuteRead(ctx, listLinesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	lines := make([]domain.Line, 0, len(res.Records))
	for _, rec := range res.Records {
		lines = append(lines, decodeLine(rec))
	}
	return lines, nil
}

// DeleteLine removes the line node and all of its sections.
func (r *GraphRepository) DeleteLine(ctx context.Context, id int64) error {
	res, err := r.client.ExecuteWrite(ctx, deleteLineCypher, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete line %d: %w", id, err)
	}
	if rec, ok := res.Single(); !ok || rec.Int64("deleted") == 0 {
		return fmt.Errorf("line %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SaveSections replaces the sections of a line in a single statement and
// returns them with ids assigned.
func (r *GraphRepository) SaveSections(ctx context.Context, lineID int64, sections []domain.Section) ([]domain.Section, error) {
	sections, err := r.assignSectionIDs(ctx, lineID, sections)
	if err != nil {
		return nil, err
	}

	_, err = r.client.ExecuteWrite(ctx, saveSectionsCypher, map[string]any{
		"lineId":   lineID,
		"sections": sectionParams(sections),
	})
	if err != nil {
		return nil, fmt.Errorf("save sections of line %d: %w", lineID, err)
	}
	return sections, nil
}

// ListSections returns every section of every line.
func (r *GraphRepository) ListSections(ctx context.Context) ([]domain.Section, error) {
	res, err := r.client.ExecuteRead(ctx, listSectionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	sections := make([]domain.Section, 0, len(res.Records))
	for _, rec := range res.Records {
		sections = append(sections, decodeSection(rec))
	}
	return sections, nil
}

// reserveIDs advances the named sequence by count and returns the first
// reserved value.
func (r *GraphRepository) reserveIDs(ctx context.Context, sequence string, count int) (int64, error) {
	res, err := r.client.ExecuteWrite(ctx, reserveIDsCypher, map[string]any{
		"name":  sequence,
		"count": int64(count),
	})
	if err != nil {
		return 0, fmt.Errorf("reserve %s id: %w", sequence, err)
	}
	rec, ok := res.Single()
	if !ok {
		return 0, fmt.Errorf("reserve %s id: empty result", sequence)
	}
	return rec.Int64("last") - int64(count) + 1, nil
}

func (r *GraphRepository) assignSectionIDs(ctx context.Context, lineID int64, sections []domain.Section) ([]domain.Section, error) {
	out := make([]domain.Section, len(sections))
	copy(out, sections)

	missing := 0
	for _, s := range out {
		if s.ID == 0 {
			missing++
		}
	}
	var next int64
	if missing > 0 {
		first, err := r.reserveIDs(ctx, sectionSequence, missing)
		if err != nil {
			return nil, err
		}
		next = first
	}
	for i := range out {
		out[i].LineID = lineID
		if out[i].ID == 0 {
			out[i].ID = next
			next++
		}
	}
	return out, nil
}

func sectionParams(sections []domain.Section) []map[string]any {
	params := make([]map[string]any, 0, len(sections))
	for i, s := range sections {
		params = append(params, map[string]any{
			"id":            s.ID,
			"upStationId":   s.UpStationID,
			"downStationId": s.DownStationID,
			"distance":      s.Distance,
			"position":      int64(i),
		})
	}
	return params
}

func decodeStation(rec graph.Record) domain.Station {
	return domain.Station{
		ID:   rec.Int64("id"),
		Name: rec.String("name"),
	}
}

func decodeSection(rec graph.Record) domain.Section {
	return domain.Section{
		ID:            rec.Int64("id"),
		LineID:        rec.Int64("lineId"),
		UpStationID:   rec.Int64("upStationId"),
		DownStationID: rec.Int64("downStationId"),
		Distance:      rec.Int64("distance"),
	}
}

func decodeLine(rec graph.Record) domain.Line {
	line := domain.Line{
		ID:    rec.Int64("id"),
		Name:  rec.String("name"),
		Color: rec.String("color"),
	}
	for _, s := range rec.Records("sections") {
		section := decodeSection(s)
		section.LineID = line.ID
		line.Sections = append(line.Sections, section)
	}
	return line
}

const reserveIDsCypher = `
MERGE (seq:Sequence {name: $name})
ON CREATE SET seq.value = 0
SET seq.value = seq.value + $count
RETURN seq.value AS last
`

const createStationCypher = `
CREATE (s:Station {id: $id, name: $name})
RETURN s.id AS id, s.name AS name
`

const findStationCypher = `
MATCH (s:Station {id: $id})
RETURN s.id AS id, s.name AS name
`

const listStationsCypher = `
MATCH (s:Station)
RETURN s.id AS id, s.name AS name
ORDER BY s.id
`

const deleteStationCypher = `
OPTIONAL MATCH (s:Station {id: $id})
DETACH DELETE s
RETURN count(s) AS deleted
`

const createLineCypher = `
CREATE (l:Line {id: $id, name: $name, color: $color})
WITH l
UNWIND $sections AS sec
MATCH (up:Station {id: sec.upStationId}), (down:Station {id: sec.downStationId})
CREATE (up)-[:SECTION {id: sec.id, lineId: l.id, distance: sec.distance, position: sec.position}]->(down)
RETURN count(*) AS created
`

const lineProjection = `
OPTIONAL MATCH (up:Station)-[s:SECTION {lineId: l.id}]->(down:Station)
WITH l, s, up, down
ORDER BY s.position
WITH l, collect(CASE WHEN s IS NULL THEN NULL ELSE {
  id: s.id,
  upStationId: up.id,
  downStationId: down.id,
  distance: s.distance
} END) AS sections
RETURN l.id AS id, l.name AS name, l.color AS color, sections
`

const findLineCypher = `
MATCH (l:Line {id: $id})
` + lineProjection

const listLinesCypher = `
MATCH (l:Line)
` + lineProjection + `
ORDER BY id
`

const deleteLineCypher = `
OPTIONAL MATCH (l:Line {id: $id})
OPTIONAL MATCH ()-[s:SECTION {lineId: $id}]->()
DELETE s
WITH collect(DISTINCT l) AS lines
FOREACH (l IN lines | DELETE l)
RETURN size(lines) AS deleted
`

const saveSectionsCypher = `
OPTIONAL MATCH ()-[old:SECTION {lineId: $lineId}]->()
DELETE old
WITH count(*) AS _
UNWIND $sections AS sec
MATCH (up:Station {id: sec.upStationId}), (down:Station {id: sec.downStationId})
CREATE (up)-[:SECTION {id: sec.id, lineId: $lineId, distance: sec.distance, position: sec.position}]->(down)
RETURN count(*) AS saved
`

const listSectionsCypher = `
MATCH (up:Station)-[s:SECTION]->(down:Station)
RETURN s.id AS id,
       s.lineId AS lineId,
       up.id AS upStationId,
       down.id AS downStationId,
       s.distance AS distance
ORDER BY s.lineId, s.position
`
