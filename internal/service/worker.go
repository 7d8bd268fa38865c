package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk loading.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// LoadReport counts what a bulk load created.
type LoadReport struct {
	Stations int
	Lines    int
	Sections int
}

// BulkLoader seeds a network dataset using a worker pool.
type BulkLoader struct {
	network *NetworkService
	workers int
	logger  *slog.Logger
}

// NewBulkLoader creates a BulkLoader with the provided concurrency.
func NewBulkLoader(network *NetworkService, workers int, logger *slog.Logger) *BulkLoader {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkLoader{
		network: network,
		workers: workers,
		logger:  logger.With("component", "bulk_loader"),
	}
}

// Load creates the dataset's stations concurrently, then its lines. Stations
// that already exist by name are reused, so a dataset can be loaded twice.
// Lines whose stations failed to load are skipped and reported.
func (bl *BulkLoader) Load(ctx context.Context, input NetworkInput) (LoadReport, error) {
	var report LoadReport

	existing, err := bl.network.ListStations(ctx)
	if err != nil {
		return report, err
	}
	var mu sync.Mutex
	ids := make(map[string]int64, len(existing))
	for _, st := range existing {
		ids[nameKey(st.Name)] = st.ID
	}

	var pending []string
	for _, name := range stationNames(input) {
		if _, ok := ids[nameKey(name)]; !ok {
			pending = append(pending, name)
		}
	}

	var created atomic.Int64
	stationErr := bl.run(ctx, len(pending), func(idx int) error {
		st, err := bl.network.CreateStation(ctx, pending[idx])
		if errors.Is(err, domain.ErrDuplicateName) {
			// already carries the station name
			return err
		}
		if err != nil {
			return fmt.Errorf("station %q: %w", pending[idx], err)
		}
		created.Add(1)
		mu.Lock()
		ids[nameKey(st.Name)] = st.ID
		mu.Unlock()
		return nil
	})
	report.Stations = int(created.Load())
	if isCancellation(stationErr) {
		return report, stationErr
	}

	var lines, sections atomic.Int64
	lineErr := bl.run(ctx, len(input.Lines), func(idx int) error {
		n, err := bl.loadLine(ctx, input.Lines[idx], ids)
		if n > 0 {
			lines.Add(1)
			sections.Add(int64(n))
		}
		return err
	})
	report.Lines = int(lines.Load())
	report.Sections = int(sections.Load())
	if isCancellation(lineErr) {
		return report, lineErr
	}

	var taskErr TaskError
	collect(&taskErr, stationErr)
	collect(&taskErr, lineErr)
	bl.logger.Info("network loaded",
		"stations", report.Stations,
		"lines", report.Lines,
		"sections", report.Sections,
		"errors", len(taskErr.Errors),
	)
	return report, taskErr.asError()
}

// loadLine creates the line from its first section and adds the rest in
// order. It returns the number of sections stored.
func (bl *BulkLoader) loadLine(ctx context.Context, in LineInput, ids map[string]int64) (int, error) {
	if len(in.Sections) == 0 {
		return 0, fmt.Errorf("line %q: %w", in.Name, invalid("sections", "at least one section is required"))
	}

	// ids is only read once station loading has finished
	resolve := func(sec SectionInput) (int64, int64, error) {
		up, ok := ids[nameKey(sec.Up)]
		if !ok {
			return 0, 0, fmt.Errorf("line %q: station %q: %w", in.Name, sec.Up, domain.ErrNotFound)
		}
		down, ok := ids[nameKey(sec.Down)]
		if !ok {
			return 0, 0, fmt.Errorf("line %q: station %q: %w", in.Name, sec.Down, domain.ErrNotFound)
		}
		return up, down, nil
	}

	up, down, err := resolve(in.Sections[0])
	if err != nil {
		return 0, err
	}
	line, err := bl.network.CreateLine(ctx, LineRequest{
		Name:          in.Name,
		Color:         in.Color,
		UpStationID:   up,
		DownStationID: down,
		Distance:      in.Sections[0].Distance,
	})
	if err != nil {
		return 0, fmt.Errorf("line %q: %w", in.Name, err)
	}

	stored := 1
	for _, sec := range in.Sections[1:] {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		up, down, err := resolve(sec)
		if err != nil {
			return stored, err
		}
		if _, err := bl.network.AddSection(ctx, line.ID, SectionRequest{
			UpStationID:   up,
			DownStationID: down,
			Distance:      sec.Distance,
		}); err != nil {
			return stored, fmt.Errorf("line %q: section %s-%s: %w", in.Name, sec.Up, sec.Down, err)
		}
		stored++
	}
	return stored, nil
}

func (bl *BulkLoader) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bl.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}
	var taskErr TaskError
	for err := range errCh {
		if isCancellation(err) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

// stationNames lists every distinct station named by the dataset in first
// mention order. Names differing only in case count once.
func stationNames(input NetworkInput) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		name = sanitizeString(name)
		key := nameKey(name)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		names = append(names, name)
	}
	for _, name := range input.Stations {
		add(name)
	}
	for _, l := range input.Lines {
		for _, sec := range l.Sections {
			add(sec.Up)
			add(sec.Down)
		}
	}
	return names
}

func collect(dst *TaskError, err error) {
	var te *TaskError
	if errors.As(err, &te) {
		dst.Errors = append(dst.Errors, te.Errors...)
		return
	}
	dst.append(err)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
