package service

import (
	"fmt"

	"github.com/mincheolkk/atdd-subway-path/internal/domain"
)

// LineRequest is the payload for creating a line with its first section.
type LineRequest struct {
	Name          string
	Color         string
	UpStationID   int64
	DownStationID int64
	Distance      int64
}

// SectionRequest is the payload for registering a section on an existing line.
type SectionRequest struct {
	UpStationID   int64
	DownStationID int64
	Distance      int64
}

// PathResult is a shortest path with its stations resolved for display.
type PathResult struct {
	Stations []domain.Station
	Distance int64
}

// NetworkInput is a seed dataset. Sections refer to stations by name; any
// station named by a section is created even when Stations omits it.
type NetworkInput struct {
	Stations []string    `yaml:"stations" json:"stations"`
	Lines    []LineInput `yaml:"lines" json:"lines"`
}

// LineInput describes one line of a seed dataset. Sections are applied in
// order, so each one after the first must touch a station already on the line.
type LineInput struct {
	Name     string         `yaml:"name" json:"name"`
	Color    string         `yaml:"color" json:"color"`
	Sections []SectionInput `yaml:"sections" json:"sections"`
}

// SectionInput is a section between two named stations.
type SectionInput struct {
	Up       string `yaml:"up" json:"up"`
	Down     string `yaml:"down" json:"down"`
	Distance int64  `yaml:"distance" json:"distance"`
}

// ValidationError reports a problem with a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
