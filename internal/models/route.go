package models

// PointType is the positional role of a route point. It is always derived
// from the point's index in the sequence, never set independently.
type PointType string

const (
	PointTypeOrigin      PointType = "origin"
	PointTypeDestination PointType = "destination"
	PointTypeWaypoint    PointType = "waypoint"
)

// RoutePoint is one slot in a route under construction. StopID is empty
// while the slot is unfilled; Name is a denormalized copy of the bound
// stop's name kept in sync whenever StopID changes.
type RoutePoint struct {
	ID     string    `json:"id"`
	StopID string    `json:"stop_id"`
	Name   string    `json:"name"`
	Type   PointType `json:"type"`
	Order  int       `json:"order"`
}

// Bound reports whether the slot has a stop bound to it.
func (p RoutePoint) Bound() bool {
	return p.StopID != ""
}
