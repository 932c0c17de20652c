package models

import "math"

// StopType distinguishes major terminals from ordinary roadside stops.
type StopType string

const (
	StopTypeTerminal StopType = "terminal"
	StopTypeStop     StopType = "stop"
)

// Stop is a named point of interest on the map. A freshly drafted stop
// already carries a client-generated ID so it can be referenced (e.g. by a
// route point) before it is ever persisted.
type Stop struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         StopType `json:"type"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Barangay     string   `json:"barangay"`
	VehicleTypes []string `json:"vehicle_types"`
}

// HasFiniteCoords reports whether both coordinates are finite numbers.
// Stops failing this check are dropped on load and ignored on click.
func (s Stop) HasFiniteCoords() bool {
	return IsFiniteCoord(s.Lat) && IsFiniteCoord(s.Lng)
}

// IsFiniteCoord rejects NaN and ±Inf.
func IsFiniteCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// GhostMarker is the ephemeral indicator tracking the most recent map
// click. At most one exists at a time and it is never persisted.
type GhostMarker struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
