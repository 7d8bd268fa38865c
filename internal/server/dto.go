package server

import (
	"time"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
	"github.com/mincheolkk/atdd-subway-path/internal/pathfinder"
)

type stationRequest struct {
	Name string `json:"name"`
}

type lineRequest struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	UpStationID   int64  `json:"upStationId"`
	DownStationID int64  `json:"downStationId"`
	Distance      int64  `json:"distance"`
}

type sectionRequest struct {
	UpStationID   int64 `json:"upStationId"`
	DownStationID int64 `json:"downStationId"`
	Distance      int64 `json:"distance"`
}

type stationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type sectionResponse struct {
	ID            int64 `json:"id"`
	UpStationID   int64 `json:"upStationId"`
	DownStationID int64 `json:"downStationId"`
	Distance      int64 `json:"distance"`
}

type lineResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Color    string            `json:"color"`
	Stations []stationResponse `json:"stations"`
	Sections []sectionResponse `json:"sections"`
}

type pathResponse struct {
	Stations []stationResponse `json:"stations"`
	Distance int64             `json:"distance"`
}

type graphStatsResponse struct {
	Built    bool   `json:"built"`
	Stations int    `json:"stations"`
	Sections int    `json:"sections"`
	BuiltAt  string `json:"builtAt,omitempty"`
}

func newStationResponse(st domain.Station) stationResponse {
	return stationResponse{ID: st.ID, Name: st.Name}
}

func newLineResponse(line domain.Line, names map[int64]string) lineResponse {
	resp := lineResponse{
		ID:       line.ID,
		Name:     line.Name,
		Color:    line.Color,
		Stations: []stationResponse{},
		Sections: make([]sectionResponse, 0, len(line.Sections)),
	}
	for _, id := range line.StationIDs() {
		resp.Stations = append(resp.Stations, stationResponse{ID: id, Name: names[id]})
	}
	for _, s := range line.Sections {
		resp.Sections = append(resp.Sections, sectionResponse{
			ID:            s.ID,
			UpStationID:   s.UpStationID,
			DownStationID: s.DownStationID,
			Distance:      s.Distance,
		})
	}
	return resp
}

func newGraphStatsResponse(stats pathfinder.CacheStats) graphStatsResponse {
	resp := graphStatsResponse{
		Built:    stats.Built,
		Stations: stats.Stations,
		Sections: stats.Sections,
	}
	if !stats.BuiltAt.IsZero() {
		resp.BuiltAt = stats.BuiltAt.UTC().Format(time.RFC3339)
	}
	return resp
}
