package builder

import (
	"math"
	"sync"

	"github.com/google/uuid"

	"commutewise/internal/models"
)

const defaultTransportMode = "Jeepney"

// Session is an immutable snapshot of a route build in progress, handed to
// the pure validation/resolution functions and to API responses.
type Session struct {
	IsBuilding       bool                `json:"is_building"`
	RouteName        string              `json:"route_name"`
	TransportMode    string              `json:"transport_mode"`
	Fare             float64             `json:"fare"`
	IsFree           bool                `json:"is_free"`
	IsStrict         bool                `json:"is_strict"`
	Points           []models.RoutePoint `json:"points"`
	IsSelectingOnMap bool                `json:"is_selecting_on_map"`
	ActivePointIndex int                 `json:"active_point_index"`
}

// Builder owns one route-creation workflow: route metadata, the ordered
// point sequence (origin first, destination last, waypoints between) and
// the mutually exclusive map-selection sub-mode. All mutation goes through
// named operations; roles and order are re-derived after every structural
// change.
type Builder struct {
	mu sync.Mutex

	building      bool
	routeName     string
	transportMode string
	fare          float64
	isFree        bool
	isStrict      bool

	points []models.RoutePoint

	selectingOnMap bool
	activeIndex    int // -1 when no point is armed
}

func New() *Builder {
	return &Builder{
		transportMode: defaultTransportMode,
		points:        initialPoints(),
		activeIndex:   -1,
	}
}

func initialPoints() []models.RoutePoint {
	return normalize([]models.RoutePoint{
		{ID: "origin"},
		{ID: "dest"},
	})
}

// normalize re-derives role and order from position: first point is the
// origin, last the destination, everything between a waypoint.
func normalize(points []models.RoutePoint) []models.RoutePoint {
	for i := range points {
		switch i {
		case 0:
			points[i].Type = models.PointTypeOrigin
		case len(points) - 1:
			points[i].Type = models.PointTypeDestination
		default:
			points[i].Type = models.PointTypeWaypoint
		}
		points[i].Order = i
	}
	return points
}

// StartBuilding opens a fresh session, discarding any previous draft.
func (b *Builder) StartBuilding() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.building = true
	b.routeName = ""
	b.transportMode = defaultTransportMode
	b.fare = 0
	b.isFree = false
	b.isStrict = false
	b.points = initialPoints()
	b.selectingOnMap = false
	b.activeIndex = -1
}

// CancelBuilding tears the session down from either active state.
func (b *Builder) CancelBuilding() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.building = false
	b.selectingOnMap = false
	b.activeIndex = -1
	b.points = initialPoints()
}

// IsBuilding reports whether a session is active.
func (b *Builder) IsBuilding() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.building
}

// SetRouteName sets the draft route's display name.
func (b *Builder) SetRouteName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routeName = name
}

// SetTransportMode sets the vehicle type the route is served by.
func (b *Builder) SetTransportMode(mode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transportMode = mode
}

// SetFare clamps the fare to zero or above; non-finite input becomes 0.
func (b *Builder) SetFare(fare float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if math.IsNaN(fare) || math.IsInf(fare, 0) {
		b.fare = 0
		return
	}
	b.fare = math.Max(0, fare)
}

// SetFree marks the route as free of charge.
func (b *Builder) SetFree(free bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.isFree = free
}

// SetStrict marks the route as strict (no hailing between stops).
func (b *Builder) SetStrict(strict bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.isStrict = strict
}

// AddWaypoint inserts a new empty waypoint immediately before the
// destination slot.
func (b *Builder) AddWaypoint() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.building {
		return
	}

	insert := len(b.points) - 1
	if insert < 1 {
		insert = 1
	}

	wp := models.RoutePoint{ID: uuid.NewString(), Type: models.PointTypeWaypoint}
	b.points = append(b.points[:insert], append([]models.RoutePoint{wp}, b.points[insert:]...)...)
	b.points = normalize(b.points)
}

// RemoveWaypoint deletes the point at index if it is a waypoint. Origin
// and destination are structurally protected; targeting them is a no-op.
func (b *Builder) RemoveWaypoint(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.points) {
		return
	}
	if b.points[index].Type != models.PointTypeWaypoint {
		return
	}

	b.points = append(b.points[:index], b.points[index+1:]...)
	b.points = normalize(b.points)
}

// UpdatePoint rebinds the slot at index from the given stop fragment. An
// empty stop id clears the slot back to unfilled. Role and order are
// untouched: binding is not a structural change.
func (b *Builder) UpdatePoint(index int, stop models.Stop) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindPoint(index, stop)
}

func (b *Builder) bindPoint(index int, stop models.Stop) {
	if index < 0 || index >= len(b.points) {
		return
	}
	b.points[index].StopID = stop.ID
	if stop.ID == "" {
		b.points[index].Name = ""
	} else {
		b.points[index].Name = stop.Name
	}
	b.points = normalize(b.points)
}

// SwapPoints moves the point at fromIndex to toIndex, shifting the rest.
// Moving a point into slot 0 or the last slot promotes it to
// origin/destination; roles are purely positional. Out-of-range indices
// are a no-op.
func (b *Builder) SwapPoints(fromIndex, toIndex int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.points)
	if fromIndex < 0 || toIndex < 0 || fromIndex >= n || toIndex >= n {
		return
	}

	moved := b.points[fromIndex]
	rest := append(append([]models.RoutePoint{}, b.points[:fromIndex]...), b.points[fromIndex+1:]...)
	b.points = append(rest[:toIndex], append([]models.RoutePoint{moved}, rest[toIndex:]...)...)
	b.points = normalize(b.points)
}

// StartMapSelection arms the point at index: the next stop pick on the map
// binds to it instead of opening the normal edit flow.
func (b *Builder) StartMapSelection(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.building || index < 0 || index >= len(b.points) {
		return
	}
	b.selectingOnMap = true
	b.activeIndex = index
}

// ConfirmMapSelection binds the picked stop to the armed point and drops
// back to plain building. No-op when nothing is armed.
func (b *Builder) ConfirmMapSelection(stop models.Stop) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.activeIndex < 0 {
		return
	}
	b.bindPoint(b.activeIndex, stop)
	b.selectingOnMap = false
	b.activeIndex = -1
}

// CancelMapSelection disarms without binding.
func (b *Builder) CancelMapSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectingOnMap = false
	b.activeIndex = -1
}

// IsSelectingOnMap reports whether a point is armed, and which one.
func (b *Builder) IsSelectingOnMap() (bool, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectingOnMap, b.activeIndex
}

// Points returns a copy of the current point sequence.
func (b *Builder) Points() []models.RoutePoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.RoutePoint{}, b.points...)
}

// Snapshot captures the session for validation, resolution and display.
func (b *Builder) Snapshot() Session {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Session{
		IsBuilding:       b.building,
		RouteName:        b.routeName,
		TransportMode:    b.transportMode,
		Fare:             b.fare,
		IsFree:           b.isFree,
		IsStrict:         b.isStrict,
		Points:           append([]models.RoutePoint{}, b.points...),
		IsSelectingOnMap: b.selectingOnMap,
		ActivePointIndex: b.activeIndex,
	}
}
