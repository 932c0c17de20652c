package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commutewise/internal/builder"
	"commutewise/internal/directions"
	"commutewise/internal/models"
	"commutewise/internal/session"
	"commutewise/internal/storage"
)

type memoryStorage struct {
	stops map[string]models.Stop
}

func (m *memoryStorage) ListStops(ctx context.Context) ([]models.Stop, error) {
	out := make([]models.Stop, 0, len(m.stops))
	for _, s := range m.stops {
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryStorage) UpsertStop(ctx context.Context, stop models.Stop) (models.Stop, error) {
	m.stops[stop.ID] = stop
	return stop, nil
}

func (m *memoryStorage) DeleteStop(ctx context.Context, id string) error {
	delete(m.stops, id)
	return nil
}

type fakeRouteCreator struct {
	created []storage.RouteDefinition
	err     error
}

func (f *fakeRouteCreator) CreateRoute(ctx context.Context, def storage.RouteDefinition) (storage.RouteRecord, error) {
	if f.err != nil {
		return storage.RouteRecord{}, f.err
	}
	f.created = append(f.created, def)
	return storage.RouteRecord{
		ID:            "r1",
		Name:          def.Name,
		VehicleType:   strings.ToLower(def.VehicleType),
		OriginID:      def.OriginID,
		DestinationID: def.DestinationID,
	}, nil
}

type fakePathCalculator struct {
	result *directions.Result
	err    error
	stops  []directions.Stop
}

func (f *fakePathCalculator) CalculateRoutePath(ctx context.Context, stops []directions.Stop, profile directions.Profile, snapRadiusMeters int) (*directions.Result, error) {
	f.stops = stops
	return f.result, f.err
}

func routeTestSetup(t *testing.T) (*gin.Engine, *builder.Builder, *session.Store, *fakeRouteCreator, *fakePathCalculator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := &memoryStorage{stops: map[string]models.Stop{
		"s1": {ID: "s1", Name: "Bayan Terminal", Type: models.StopTypeTerminal, Lat: 14.676, Lng: 121.0423},
		"s2": {ID: "s2", Name: "Riverside", Type: models.StopTypeStop, Lat: 14.68, Lng: 121.05},
	}}
	store := session.NewStore(mem)
	require.NoError(t, store.FetchAll(context.Background()))

	b := builder.New()
	creator := &fakeRouteCreator{}
	paths := &fakePathCalculator{result: &directions.Result{Distance: 1845.2, Duration: 412.7}}

	rc := NewRouteController(b, store, creator, paths, directions.ProfileDriving, 50)

	r := gin.New()
	r.POST("/builder/save", rc.SaveRoute)
	return r, b, store, creator, paths
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaveRouteHappyPath(t *testing.T) {
	r, b, _, creator, paths := routeTestSetup(t)

	b.StartBuilding()
	b.SetRouteName("Bayan - Riverside")
	b.SetTransportMode("Jeepney")
	b.UpdatePoint(0, models.Stop{ID: "s1", Name: "Bayan Terminal"})
	b.UpdatePoint(1, models.Stop{ID: "s2", Name: "Riverside"})

	w := postJSON(t, r, "/builder/save", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, creator.created, 1)
	assert.Equal(t, "Bayan - Riverside", creator.created[0].Name)
	assert.Equal(t, "s1", creator.created[0].OriginID)
	assert.Equal(t, "s2", creator.created[0].DestinationID)

	// The road path was requested for the resolved stops, in order.
	require.Len(t, paths.stops, 2)
	assert.Equal(t, "s1", paths.stops[0].ID)

	var payload struct {
		Distance float64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 1845.2, payload.Distance)

	// A successful save ends the build session.
	assert.False(t, b.IsBuilding())
}

func TestSaveRouteCollectsValidationErrors(t *testing.T) {
	r, b, _, creator, _ := routeTestSetup(t)

	b.StartBuilding() // blank name, both points unbound

	w := postJSON(t, r, "/builder/save", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, creator.created)

	var payload struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload.Errors, "Route name is required.")
	assert.Contains(t, payload.Errors, "The origin does not have a selected stop.")
	assert.Contains(t, payload.Errors, "The destination does not have a selected stop.")
	assert.True(t, b.IsBuilding())
}

func TestSaveRouteWithoutSessionIsConflict(t *testing.T) {
	r, _, _, _, _ := routeTestSetup(t)

	w := postJSON(t, r, "/builder/save", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSaveRouteNoPathIsUnprocessable(t *testing.T) {
	r, b, _, creator, paths := routeTestSetup(t)
	paths.result = nil

	b.StartBuilding()
	b.SetRouteName("Bayan - Riverside")
	b.UpdatePoint(0, models.Stop{ID: "s1", Name: "Bayan Terminal"})
	b.UpdatePoint(1, models.Stop{ID: "s2", Name: "Riverside"})

	w := postJSON(t, r, "/builder/save", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, creator.created)
	// The draft survives so the operator can adjust the stops.
	assert.True(t, b.IsBuilding())
}

func TestSaveRoutePersistFailureKeepsSession(t *testing.T) {
	r, b, _, creator, _ := routeTestSetup(t)
	creator.err = errors.New("storage down")

	b.StartBuilding()
	b.SetRouteName("Bayan - Riverside")
	b.UpdatePoint(0, models.Stop{ID: "s1", Name: "Bayan Terminal"})
	b.UpdatePoint(1, models.Stop{ID: "s2", Name: "Riverside"})

	w := postJSON(t, r, "/builder/save", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, b.IsBuilding())
}
