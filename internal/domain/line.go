package domain

import (
	"errors"
	"slices"
)

// Section is a track segment between two stations of a line.
type Section struct {
	ID            int64
	LineID        int64
	UpStationID   int64
	DownStationID int64
	Distance      int64
}

// Line is a subway line. Sections are kept in travel order, from the
// upstream terminal to the downstream terminal.
type Line struct {
	ID       int64
	Name     string
	Color    string
	Sections []Section
}

var (
	ErrInvalidSection           = errors.New("section must connect two different stations")
	ErrInvalidDistance          = errors.New("section distance is invalid")
	ErrSectionAlreadyRegistered = errors.New("both stations are already registered on the line")
	ErrSectionNotConnected      = errors.New("neither station is registered on the line")
	ErrSingleSection            = errors.New("line has only one section")
	ErrNotTerminalStation       = errors.New("only the downstream terminal station can be removed")
)

// StationIDs returns the stations of the line in travel order.
func (l Line) StationIDs() []int64 {
	if len(l.Sections) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(l.Sections)+1)
	ids = append(ids, l.Sections[0].UpStationID)
	for _, s := range l.Sections {
		ids = append(ids, s.DownStationID)
	}
	return ids
}

// HasStation reports whether the station is part of the line.
func (l Line) HasStation(stationID int64) bool {
	return slices.Contains(l.StationIDs(), stationID)
}

// AddSection registers a new section on the line. A section that starts at
// the downstream terminal extends the line, one that ends at the upstream
// terminal is prepended, and anything else splits an existing section.
func (l *Line) AddSection(s Section) error {
	if s.UpStationID == s.DownStationID {
		return ErrInvalidSection
	}
	if s.Distance <= 0 {
		return ErrInvalidDistance
	}
	s.LineID = l.ID

	if len(l.Sections) == 0 {
		l.Sections = append(l.Sections, s)
		return nil
	}

	stations := l.StationIDs()
	upIdx := slices.Index(stations, s.UpStationID)
	downIdx := slices.Index(stations, s.DownStationID)

	switch {
	case upIdx >= 0 && downIdx >= 0:
		return ErrSectionAlreadyRegistered
	case upIdx < 0 && downIdx < 0:
		return ErrSectionNotConnected
	case upIdx == len(stations)-1:
		l.Sections = append(l.Sections, s)
		return nil
	case downIdx == 0:
		l.Sections = slices.Insert(l.Sections, 0, s)
		return nil
	case upIdx >= 0:
		// existing section starting at the shared up station is split in two
		existing := l.Sections[upIdx]
		if s.Distance >= existing.Distance {
			return ErrInvalidDistance
		}
		rest := Section{
			LineID:        l.ID,
			UpStationID:   s.DownStationID,
			DownStationID: existing.DownStationID,
			Distance:      existing.Distance - s.Distance,
		}
		s.ID = existing.ID
		l.Sections[upIdx] = s
		l.Sections = slices.Insert(l.Sections, upIdx+1, rest)
		return nil
	default:
		// existing section ending at the shared down station is split in two
		existing := l.Sections[downIdx-1]
		if s.Distance >= existing.Distance {
			return ErrInvalidDistance
		}
		existing.DownStationID = s.UpStationID
		existing.Distance -= s.Distance
		l.Sections[downIdx-1] = existing
		l.Sections = slices.Insert(l.Sections, downIdx, s)
		return nil
	}
}

// RemoveStation removes the downstream terminal station together with its
// section.
func (l *Line) RemoveStation(stationID int64) error {
	if len(l.Sections) <= 1 {
		return ErrSingleSection
	}
	last := l.Sections[len(l.Sections)-1]
	if last.DownStationID != stationID {
		if !l.HasStation(stationID) {
			return ErrNotFound
		}
		return ErrNotTerminalStation
	}
	l.Sections = l.Sections[:len(l.Sections)-1]
	return nil
}
