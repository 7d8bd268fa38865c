package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

const mysqlDuplicateEntry = 1062

// SQLRepository persists the subway network in MySQL or MariaDB.
type SQLRepository struct {
	db *sql.DB
}

// NewSQL wraps an open connection pool.
func NewSQL(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Ping verifies the database is reachable.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) CreateStation(ctx context.Context, name string) (domain.Station, error) {
	if name == "" {
		return domain.Station{}, errors.New("station name is required")
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO stations (name) VALUES (?)`, name)
	if err != nil {
		return domain.Station{}, fmt.Errorf("create station %q: %w", name, mapSQLError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Station{}, fmt.Errorf("create station %q: %w", name, err)
	}
	return domain.Station{ID: id, Name: name}, nil
}

func (r *SQLRepository) FindStation(ctx context.Context, id int64) (domain.Station, error) {
	var s domain.Station
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM stations WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Station{}, fmt.Errorf("station %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Station{}, fmt.Errorf("find station %d: %w", id, err)
	}
	return s, nil
}

func (r *SQLRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM stations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func (r *SQLRepository) DeleteStation(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete station %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("station %d", id))
}

// CreateLine inserts the line and its sections in one transaction.
func (r *SQLRepository) CreateLine(ctx context.Context, line domain.Line) (domain.Line, error) {
	if line.Name == "" {
		return domain.Line{}, errors.New("line name is required")
	}
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO subway_lines (name, color) VALUES (?, ?)`, line.Name, line.Color)
		if err != nil {
			return fmt.Errorf("create line %q: %w", line.Name, mapSQLError(err))
		}
		if line.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("create line %q: %w", line.Name, err)
		}
		line.Sections, err = insertSections(ctx, tx, line.ID, line.Sections)
		return err
	})
	if err != nil {
		return domain.Line{}, err
	}
	return line, nil
}

func (r *SQLRepository) FindLine(ctx context.Context, id int64) (domain.Line, error) {
	line := domain.Line{ID: id}
	err := r.db.QueryRowContext(ctx, `SELECT name, color FROM subway_lines WHERE id = ?`, id).Scan(&line.Name, &line.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Line{}, fmt.Errorf("line %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Line{}, fmt.Errorf("find line %d: %w", id, err)
	}

	line.Sections, err = r.querySections(ctx, selectSectionsSQL+` WHERE line_id = ? ORDER BY position`, id)
	if err != nil {
		return domain.Line{}, err
	}
	return line, nil
}

func (r *SQLRepository) ListLines(ctx context.Context) ([]domain.Line, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM subway_lines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	var lines []domain.Line
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	sections, err := r.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	byLine := make(map[int64][]domain.Section, len(lines))
	for _, s := range sections {
		byLine[s.LineID] = append(byLine[s.LineID], s)
	}
	for i := range lines {
		lines[i].Sections = byLine[lines[i].ID]
	}
	return lines, nil
}

func (r *SQLRepository) DeleteLine(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subway_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete line %d: %w", id, err)
	}
	return requireAffected(res, fmt.Sprintf("line %d", id))
}

// SaveSections replaces the sections of a line inside a transaction.
func (r *SQLRepository) SaveSections(ctx context.Context, lineID int64, sections []domain.Section) ([]domain.Section, error) {
	var saved []domain.Section
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE line_id = ?`, lineID); err != nil {
			return fmt.Errorf("clear sections of line %d: %w", lineID, err)
		}
		var err error
		saved, err = insertSections(ctx, tx, lineID, sections)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *SQLRepository) ListSections(ctx context.Context) ([]domain.Section, error) {
	return r.querySections(ctx, selectSectionsSQL+` ORDER BY line_id, position`)
}

const selectSectionsSQL = `SELECT id, line_id, up_station_id, down_station_id, distance FROM sections`

func (r *SQLRepository) querySections(ctx context.Context, query string, args ...any) ([]domain.Section, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(&s.ID, &s.LineID, &s.UpStationID, &s.DownStationID, &s.Distance); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *SQLRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insertSections writes sections in travel order. Sections without an id get
// one from AUTO_INCREMENT.
func insertSections(ctx context.Context, tx *sql.Tx, lineID int64, sections []domain.Section) ([]domain.Section, error) {
	out := make([]domain.Section, len(sections))
	for i, s := range sections {
		s.LineID = lineID
		var id any
		if s.ID != 0 {
			id = s.ID
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sections (id, line_id, up_station_id, down_station_id, distance, position) VALUES (?, ?, ?, ?, ?, ?)`,
			id, lineID, s.UpStationID, s.DownStationID, s.Distance, i,
		)
		if err != nil {
			return nil, fmt.Errorf("insert section %d-%d: %w", s.UpStationID, s.DownStationID, err)
		}
		if s.ID == 0 {
			if s.ID, err = res.LastInsertId(); err != nil {
				return nil, fmt.Errorf("insert section %d-%d: %w", s.UpStationID, s.DownStationID, err)
			}
		}
		out[i] = s
	}
	return out, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

func mapSQLError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateName, myErr.Message)
	}
	return err
}
