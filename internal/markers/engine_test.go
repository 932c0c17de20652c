package markers

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commutewise/internal/models"
)

// recordingRenderer captures the operations the engine issues.
type recordingRenderer struct {
	ops []string
}

func (r *recordingRenderer) Add(stop models.Stop, style Style) {
	r.ops = append(r.ops, fmt.Sprintf("add:%s:%s", stop.ID, style.Color))
}

func (r *recordingRenderer) Move(id string, lat, lng float64) {
	r.ops = append(r.ops, fmt.Sprintf("move:%s:%v,%v", id, lat, lng))
}

func (r *recordingRenderer) Remove(id string) {
	r.ops = append(r.ops, "remove:"+id)
}

func (r *recordingRenderer) ShowGhost(lat, lng float64) {
	r.ops = append(r.ops, fmt.Sprintf("ghost:%v,%v", lat, lng))
}

func (r *recordingRenderer) HideGhost() {
	r.ops = append(r.ops, "unghost")
}

func (r *recordingRenderer) reset() { r.ops = nil }

func stop(id string, lat, lng float64, types ...string) models.Stop {
	return models.Stop{ID: id, Name: id, Type: models.StopTypeStop, Lat: lat, Lng: lng, VehicleTypes: types}
}

func TestSyncDiffsRenderedAgainstDesired(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(r)

	a := stop("a", 1, 1)
	b := stop("b", 2, 2)
	e.Sync([]models.Stop{a, b}, nil)
	r.reset()

	// Desired {b (moved), c}: a removed, b moved in place, c created.
	bMoved := stop("b", 2.5, 2)
	c := stop("c", 3, 3)
	e.Sync([]models.Stop{bMoved, c}, nil)

	assert.Contains(t, r.ops, "remove:a")
	assert.Contains(t, r.ops, "move:b:2.5,2")
	assert.Contains(t, r.ops, "add:c:#64748B")
	assert.Len(t, r.ops, 3)

	// Idempotency: an unchanged desired state produces zero operations.
	r.reset()
	e.Sync([]models.Stop{bMoved, c}, nil)
	assert.Empty(t, r.ops)
}

func TestSyncUnmovedMarkerIsNoop(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(r)

	b := stop("b", 2, 2)
	e.Sync([]models.Stop{b}, nil)
	r.reset()

	e.Sync([]models.Stop{b}, nil)
	assert.Empty(t, r.ops)
}

func TestSyncStylesNewMarkersByVehicleTypes(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(r)

	e.Sync([]models.Stop{
		stop("bus", 1, 1, "Bus"),
		stop("mixed", 2, 2, "Bus", "Jeepney"),
	}, nil)

	assert.Contains(t, r.ops, "add:bus:#3B82F6")
	assert.Contains(t, r.ops, "add:mixed:#EAB308")
}

func TestSyncSkipsNonFiniteStops(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(r)

	bad := stop("bad", 1, 1)
	bad.Lat = math.Inf(1)
	e.Sync([]models.Stop{bad}, nil)

	assert.Empty(t, r.ops)
}

func TestGhostLifecycle(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(r)

	e.Sync(nil, &models.GhostMarker{Lat: 14.6, Lng: 121.0})
	assert.Equal(t, []string{"ghost:14.6,121"}, r.ops)

	// Same ghost again: no further operations.
	r.reset()
	e.Sync(nil, &models.GhostMarker{Lat: 14.6, Lng: 121.0})
	assert.Empty(t, r.ops)

	// Moved ghost re-renders; cleared ghost hides.
	r.reset()
	e.Sync(nil, &models.GhostMarker{Lat: 14.7, Lng: 121.1})
	assert.Equal(t, []string{"ghost:14.7,121.1"}, r.ops)

	r.reset()
	e.Sync(nil, nil)
	assert.Equal(t, []string{"unghost"}, r.ops)

	// Absent ghost stays absent without operations.
	r.reset()
	e.Sync(nil, nil)
	assert.Empty(t, r.ops)
}

func TestHandleClickReportsFullStop(t *testing.T) {
	r := &recordingRenderer{}
	e := NewEngine(r)

	var clicked []models.Stop
	e.OnClick(func(s models.Stop) { clicked = append(clicked, s) })

	s := stop("a", 1, 1, "Tricycle")
	s.Barangay = "San Roque"
	e.Sync([]models.Stop{s}, nil)

	e.HandleClick("a")
	require.Len(t, clicked, 1)
	assert.Equal(t, s, clicked[0])

	// Unknown ids are ignored.
	e.HandleClick("nope")
	assert.Len(t, clicked, 1)
}
