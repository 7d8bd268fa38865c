package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
	"github.com/mincheolkk/atdd-subway-path/internal/pathfinder"
	"github.com/mincheolkk/atdd-subway-path/internal/service"
)

// NetworkService is the part of service.NetworkService the handlers use.
type NetworkService interface {
	CreateStation(ctx context.Context, name string) (domain.Station, error)
	FindStation(ctx context.Context, id int64) (domain.Station, error)
	ListStations(ctx context.Context) ([]domain.Station, error)
	DeleteStation(ctx context.Context, id int64) error
	CreateLine(ctx context.Context, req service.LineRequest) (domain.Line, error)
	FindLine(ctx context.Context, id int64) (domain.Line, error)
	ListLines(ctx context.Context) ([]domain.Line, error)
	DeleteLine(ctx context.Context, id int64) error
	AddSection(ctx context.Context, lineID int64, req service.SectionRequest) (domain.Line, error)
	RemoveSection(ctx context.Context, lineID, stationID int64) error
}

// PathService answers shortest path queries.
type PathService interface {
	FindPath(ctx context.Context, source, target int64) (service.PathResult, error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	network NetworkService
	paths   PathService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, network NetworkService, paths PathService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		network: network,
		paths:   paths,
	}
}

func (h *APIHandlers) createStation(w http.ResponseWriter, r *http.Request) {
	var payload stationRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	station, err := h.network.CreateStation(r.Context(), payload.Name)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create station")
		return
	}
	w.Header().Set("Location", "/stations/"+strconv.FormatInt(station.ID, 10))
	respondJSON(w, http.StatusCreated, newStationResponse(station))
}

func (h *APIHandlers) listStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.network.ListStations(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list stations")
		return
	}
	out := make([]stationResponse, 0, len(stations))
	for _, st := range stations {
		out = append(out, newStationResponse(st))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) getStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	station, err := h.network.FindStation(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch station")
		return
	}
	respondJSON(w, http.StatusOK, newStationResponse(station))
}

func (h *APIHandlers) deleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.network.DeleteStation(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete station")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) createLine(w http.ResponseWriter, r *http.Request) {
	var payload lineRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.network.CreateLine(r.Context(), service.LineRequest{
		Name:          payload.Name,
		Color:         payload.Color,
		UpStationID:   payload.UpStationID,
		DownStationID: payload.DownStationID,
		Distance:      payload.Distance,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create line")
		return
	}
	resp, err := h.describeLine(r.Context(), line)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create line")
		return
	}
	w.Header().Set("Location", "/lines/"+strconv.FormatInt(line.ID, 10))
	respondJSON(w, http.StatusCreated, resp)
}

func (h *APIHandlers) listLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.network.ListLines(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list lines")
		return
	}
	names, err := h.stationNames(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list lines")
		return
	}
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, newLineResponse(l, names))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) getLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	line, err := h.network.FindLine(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch line")
		return
	}
	resp, err := h.describeLine(r.Context(), line)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch line")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) deleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.network.DeleteLine(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "failed to delete line")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) addSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload sectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.network.AddSection(r.Context(), id, service.SectionRequest{
		UpStationID:   payload.UpStationID,
		DownStationID: payload.DownStationID,
		Distance:      payload.Distance,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "failed to add section")
		return
	}
	resp, err := h.describeLine(r.Context(), line)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to add section")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) removeSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stationID, err := strconv.ParseInt(r.URL.Query().Get("stationId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "stationId query parameter must be an integer")
		return
	}
	if err := h.network.RemoveSection(r.Context(), id, stationID); err != nil {
		h.writeServiceError(w, r, err, "failed to remove section")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandlers) findPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, err := strconv.ParseInt(q.Get("source"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "source query parameter must be an integer")
		return
	}
	target, err := strconv.ParseInt(q.Get("target"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "target query parameter must be an integer")
		return
	}

	result, err := h.paths.FindPath(r.Context(), source, target)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to find path")
		return
	}

	resp := pathResponse{
		Stations: make([]stationResponse, 0, len(result.Stations)),
		Distance: result.Distance,
	}
	for _, st := range result.Stations {
		resp.Stations = append(resp.Stations, newStationResponse(st))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) describeLine(ctx context.Context, line domain.Line) (lineResponse, error) {
	names, err := h.stationNames(ctx)
	if err != nil {
		return lineResponse{}, err
	}
	return newLineResponse(line, names), nil
}

func (h *APIHandlers) stationNames(ctx context.Context) (map[int64]string, error) {
	stations, err := h.network.ListStations(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(stations))
	for _, st := range stations {
		names[st.ID] = st.Name
	}
	return names, nil
}

// writeServiceError maps domain and routing errors onto HTTP statuses.
// Unexpected errors are logged and answered with the generic fallback.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(fallback, "error", err, "request_id", RequestID(r.Context()))
		writeError(w, status, fallback)
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSectionAlreadyRegistered),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrStationInUse):
		return http.StatusConflict
	case errors.Is(err, pathfinder.ErrSameStation),
		errors.Is(err, pathfinder.ErrNotConnected),
		errors.Is(err, domain.ErrInvalidSection),
		errors.Is(err, domain.ErrInvalidDistance),
		errors.Is(err, domain.ErrSectionNotConnected),
		errors.Is(err, domain.ErrSingleSection),
		errors.Is(err, domain.ErrNotTerminalStation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
