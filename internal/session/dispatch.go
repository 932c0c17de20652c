package session

import (
	"context"

	"commutewise/internal/builder"
	"commutewise/internal/models"
)

// ClickContext tags what the next stop click/pick means. The dispatcher
// pattern-matches on this instead of branching on loose boolean flags.
type ClickContext interface {
	clickContext()
}

// Idle: no route point is armed; clicks follow the normal edit flow.
type Idle struct{}

// ArmedForPoint: the route builder is waiting to bind a stop to the point
// at Index; the next pick goes there.
type ArmedForPoint struct {
	Index int
}

func (Idle) clickContext()          {}
func (ArmedForPoint) clickContext() {}

// Dispatcher routes physical map interactions to the stop session store or
// the route builder depending on which mode is active. It is the one place
// where the same click is allowed to mean two different things.
type Dispatcher struct {
	store   *Store
	builder *builder.Builder
}

func NewDispatcher(store *Store, b *builder.Builder) *Dispatcher {
	return &Dispatcher{store: store, builder: b}
}

// Context reports the active click context.
func (d *Dispatcher) Context() ClickContext {
	if selecting, index := d.builder.IsSelectingOnMap(); selecting {
		return ArmedForPoint{Index: index}
	}
	return Idle{}
}

// MarkerClick handles a click on an existing rendered stop. Armed: the
// stop binds directly to the waiting route point, bypassing the edit flow.
// Idle: the stop is selected for editing.
func (d *Dispatcher) MarkerClick(stop models.Stop) {
	switch d.Context().(type) {
	case ArmedForPoint:
		d.builder.ConfirmMapSelection(stop)
	default:
		d.store.SelectStop(&stop)
	}
}

// MapClick handles a click on empty map space. This always runs the
// normal draft-a-new-stop flow, even while armed: the draft only reaches
// the route point once it is saved (see SaveStop).
func (d *Dispatcher) MapClick(lat, lng float64) {
	d.store.HandleMapClick(lat, lng)
}

// SaveStop persists the stop through the session store. If a route point
// was armed when the save completes, the persisted stop is bound to it, so
// drafting a brand-new stop mid-route-build lands on the waiting slot.
func (d *Dispatcher) SaveStop(ctx context.Context, stop models.Stop) (models.Stop, error) {
	saved, err := d.store.Save(ctx, stop)
	if err != nil {
		return models.Stop{}, err
	}
	if _, armed := d.Context().(ArmedForPoint); armed {
		d.builder.ConfirmMapSelection(saved)
	}
	return saved, nil
}
