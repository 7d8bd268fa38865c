package domain

// Path is the result of a shortest-path query: station ids from source to
// target inclusive and the summed section distance.
type Path struct {
	StationIDs []int64
	Distance   int64
}

// Source returns the first station of the path, or zero for an empty path.
func (p Path) Source() int64 {
	if len(p.StationIDs) == 0 {
		return 0
	}
	return p.StationIDs[0]
}

// Target returns the last station of the path, or zero for an empty path.
func (p Path) Target() int64 {
	if len(p.StationIDs) == 0 {
		return 0
	}
	return p.StationIDs[len(p.StationIDs)-1]
}
