package markers

import (
	"github.com/sirupsen/logrus"

	"commutewise/internal/models"
)

// Renderer is the drawing surface the engine drives. Implementations own
// the actual map widgets; the engine only decides which operations to
// issue.
type Renderer interface {
	Add(stop models.Stop, style Style)
	Move(id string, lat, lng float64)
	Remove(id string)
	ShowGhost(lat, lng float64)
	HideGhost()
}

// Engine keeps the rendered marker set in line with desired state: the
// persisted stop collection plus at most one ghost marker. It issues the
// minimal create/move/remove operations, so repeated syncs with unchanged
// state are free.
type Engine struct {
	renderer Renderer
	rendered map[string]models.Stop
	ghost    *models.GhostMarker
	onClick  func(models.Stop)
}

func NewEngine(renderer Renderer) *Engine {
	return &Engine{
		renderer: renderer,
		rendered: make(map[string]models.Stop),
	}
}

// OnClick registers the callback invoked with the full clicked Stop.
// Callers decide what a click means based on whatever mode is active.
func (e *Engine) OnClick(fn func(models.Stop)) {
	e.onClick = fn
}

// Sync reconciles the rendered set against the desired stops and ghost.
func (e *Engine) Sync(stops []models.Stop, ghost *models.GhostMarker) {
	desired := make(map[string]models.Stop, len(stops))
	for _, s := range stops {
		if !s.HasFiniteCoords() {
			continue
		}
		desired[s.ID] = s
	}

	for id := range e.rendered {
		if _, ok := desired[id]; !ok {
			e.renderer.Remove(id)
			delete(e.rendered, id)
		}
	}

	for id, s := range desired {
		prev, ok := e.rendered[id]
		if !ok {
			e.renderer.Add(s, StyleFor(s.VehicleTypes))
			e.rendered[id] = s
			continue
		}
		// Move in place rather than remove+recreate so the marker keeps
		// its identity (no flicker, no lost click handlers).
		if prev.Lat != s.Lat || prev.Lng != s.Lng {
			e.renderer.Move(id, s.Lat, s.Lng)
		}
		e.rendered[id] = s
	}

	e.syncGhost(ghost)
}

// The ghost has no id-based identity: its lifecycle is driven purely by
// presence/absence of the value.
func (e *Engine) syncGhost(ghost *models.GhostMarker) {
	switch {
	case ghost == nil && e.ghost == nil:
		return
	case ghost == nil:
		e.renderer.HideGhost()
		e.ghost = nil
	case e.ghost != nil && *e.ghost == *ghost:
		return
	default:
		if !models.IsFiniteCoord(ghost.Lat) || !models.IsFiniteCoord(ghost.Lng) {
			logrus.Warn("markers: ignoring ghost with non-finite coordinates")
			return
		}
		g := *ghost
		e.renderer.ShowGhost(g.Lat, g.Lng)
		e.ghost = &g
	}
}

// HandleClick resolves a marker id reported by the renderer to its Stop
// and forwards it to the registered callback. Unknown ids are ignored.
func (e *Engine) HandleClick(id string) {
	s, ok := e.rendered[id]
	if !ok || e.onClick == nil {
		return
	}
	e.onClick(s)
}

// Rendered returns the ids currently on the map, for introspection.
func (e *Engine) Rendered() []string {
	ids := make([]string, 0, len(e.rendered))
	for id := range e.rendered {
		ids = append(ids, id)
	}
	return ids
}
