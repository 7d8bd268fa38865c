package domain

import "errors"

// Station is a named stop in the subway network.
type Station struct {
	ID   int64
	Name string
}

var (
	// ErrNotFound reports a station, line or section that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName reports a station or line name that is already taken.
	ErrDuplicateName = errors.New("name already registered")
	// ErrStationInUse reports an attempt to delete a station that sections still reference.
	ErrStationInUse = errors.New("station is referenced by a section")
)
