package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commutewise/internal/models"
)

// Storage is the persistence collaborator for stops. Implementations live
// in internal/storage; tests substitute fakes.
type Storage interface {
	ListStops(ctx context.Context) ([]models.Stop, error)
	UpsertStop(ctx context.Context, stop models.Stop) (models.Stop, error)
	DeleteStop(ctx context.Context, id string) error
}

// Store owns the persisted stop collection, the currently selected stop
// (the open edit/create session) and the ghost marker. Mutations are
// serialized behind the mutex, including across embedded storage calls, so
// an operation that completes after a slow network round-trip still applies
// against current collection state. The loading flag is advisory only.
type Store struct {
	mu      sync.Mutex
	storage Storage

	stops    []models.Stop
	selected *models.Stop
	ghost    *models.GhostMarker
	loading  bool
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// FetchAll loads the full collection from storage. Rows with non-finite
// coordinates are dropped silently rather than failing the load.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	defer func() { s.loading = false }()

	fetched, err := s.storage.ListStops(ctx)
	if err != nil {
		logrus.WithError(err).Error("session: failed to fetch stops")
		return err
	}

	stops := make([]models.Stop, 0, len(fetched))
	for _, st := range fetched {
		if !st.HasFiniteCoords() {
			logrus.WithField("stop_id", st.ID).Warn("session: dropping stop with non-finite coordinates")
			continue
		}
		stops = append(stops, st)
	}
	s.stops = stops
	return nil
}

// HandleMapClick processes a raw map click. Non-finite coordinates are a
// no-op. The ghost marker always moves to the click. If an edit/create
// session is open the selected stop is dragged to the click and its
// barangay cleared (it has to be re-derived for the new location);
// otherwise a fresh draft stop is created at the click and selected.
func (s *Store) HandleMapClick(lat, lng float64) {
	if !models.IsFiniteCoord(lat) || !models.IsFiniteCoord(lng) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ghost = &models.GhostMarker{Lat: lat, Lng: lng}

	if s.selected != nil {
		s.selected.Lat = lat
		s.selected.Lng = lng
		s.selected.Barangay = ""
		return
	}

	s.selected = &models.Stop{
		ID:           uuid.NewString(),
		Type:         models.StopTypeStop,
		Lat:          lat,
		Lng:          lng,
		VehicleTypes: []string{},
	}
}

// SelectStop sets (or clears, with nil) the selection. Either way the
// ghost marker is dropped: selecting ends the drafting-via-click gesture.
func (s *Store) SelectStop(stop *models.Stop) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop == nil {
		s.selected = nil
	} else {
		copied := *stop
		s.selected = &copied
	}
	s.ghost = nil
}

// Save upserts the stop and refreshes the collection so the persisted
// version is immediately available for search and route building. On
// success selection and ghost are cleared and the persisted stop (taken
// from the refreshed collection) is returned. On failure the selection is
// left untouched so the draft is not lost.
func (s *Store) Save(ctx context.Context, stop models.Stop) (models.Stop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	defer func() { s.loading = false }()

	saved, err := s.storage.UpsertStop(ctx, stop)
	if err != nil {
		logrus.WithError(err).WithField("stop_id", stop.ID).Error("session: failed to save stop")
		return models.Stop{}, err
	}

	if err := s.refreshLocked(ctx); err != nil {
		// The upsert went through; a failed refresh should not lose that.
		logrus.WithError(err).Warn("session: stop saved but collection refresh failed")
	}

	for _, st := range s.stops {
		if st.ID == stop.ID {
			saved = st
			break
		}
	}

	s.selected = nil
	s.ghost = nil
	return saved, nil
}

// Delete removes the stop from storage and the local collection. The
// selection is cleared unconditionally: a stale selection referencing a
// deleted id is unsafe even if it pointed elsewhere.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	defer func() { s.loading = false }()

	if err := s.storage.DeleteStop(ctx, id); err != nil {
		logrus.WithError(err).WithField("stop_id", id).Error("session: failed to delete stop")
		return err
	}

	kept := s.stops[:0]
	for _, st := range s.stops {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	s.stops = kept
	s.selected = nil
	return nil
}

func (s *Store) refreshLocked(ctx context.Context) error {
	fetched, err := s.storage.ListStops(ctx)
	if err != nil {
		return err
	}
	stops := make([]models.Stop, 0, len(fetched))
	for _, st := range fetched {
		if !st.HasFiniteCoords() {
			continue
		}
		stops = append(stops, st)
	}
	s.stops = stops
	return nil
}

// Stops returns a copy of the current collection.
func (s *Store) Stops() []models.Stop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Stop{}, s.stops...)
}

// Selected returns a copy of the current selection, or nil.
func (s *Store) Selected() *models.Stop {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	copied := *s.selected
	return &copied
}

// Ghost returns a copy of the ghost marker, or nil.
func (s *Store) Ghost() *models.GhostMarker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ghost == nil {
		return nil
	}
	copied := *s.ghost
	return &copied
}

// IsLoading reports the advisory loading flag.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// FindStop looks a stop up by id in the local collection.
func (s *Store) FindStop(id string) (models.Stop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stops {
		if st.ID == id {
			return st, true
		}
	}
	return models.Stop{}, false
}
