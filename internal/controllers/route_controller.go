package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commutewise/internal/builder"
	"commutewise/internal/directions"
	"commutewise/internal/markers"
	"commutewise/internal/models"
	"commutewise/internal/session"
	"commutewise/internal/storage"
)

// RouteCreator is the persistence collaborator for route definitions.
type RouteCreator interface {
	CreateRoute(ctx context.Context, def storage.RouteDefinition) (storage.RouteRecord, error)
}

// PathCalculator is the road-routing collaborator.
type PathCalculator interface {
	CalculateRoutePath(ctx context.Context, stops []directions.Stop, profile directions.Profile, snapRadiusMeters int) (*directions.Result, error)
}

// RouteController exposes the route builder state machine and the save
// orchestration (validate -> resolve -> road path -> persist).
type RouteController struct {
	builder    *builder.Builder
	store      *session.Store
	routes     RouteCreator
	paths      PathCalculator
	profile    directions.Profile
	snapRadius int
}

func NewRouteController(b *builder.Builder, store *session.Store, routes RouteCreator, paths PathCalculator, profile directions.Profile, snapRadiusMeters int) *RouteController {
	if snapRadiusMeters <= 0 {
		snapRadiusMeters = directions.DefaultSnapRadiusMeters
	}
	return &RouteController{
		builder:    b,
		store:      store,
		routes:     routes,
		paths:      paths,
		profile:    profile,
		snapRadius: snapRadiusMeters,
	}
}

func (rc *RouteController) snapshot() gin.H {
	return gin.H{"session": rc.builder.Snapshot()}
}

// GetSession returns the current builder snapshot.
func (rc *RouteController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, rc.snapshot())
}

// StartBuilding opens a fresh session, discarding any prior draft.
func (rc *RouteController) StartBuilding(c *gin.Context) {
	rc.builder.StartBuilding()
	c.JSON(http.StatusOK, rc.snapshot())
}

// CancelBuilding tears the session down.
func (rc *RouteController) CancelBuilding(c *gin.Context) {
	rc.builder.CancelBuilding()
	c.JSON(http.StatusOK, rc.snapshot())
}

// AddWaypoint inserts an empty waypoint before the destination.
func (rc *RouteController) AddWaypoint(c *gin.Context) {
	if !rc.builder.IsBuilding() {
		c.JSON(http.StatusConflict, gin.H{"error": "No route build session is active"})
		return
	}
	rc.builder.AddWaypoint()
	c.JSON(http.StatusOK, rc.snapshot())
}

// RemoveWaypoint removes the point at index; origin and destination are
// structurally protected, so targeting them leaves the session unchanged.
func (rc *RouteController) RemoveWaypoint(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid point index"})
		return
	}
	rc.builder.RemoveWaypoint(index)
	c.JSON(http.StatusOK, rc.snapshot())
}

// UpdatePoint rebinds the point at index from a stop fragment. An empty id
// clears the slot.
func (rc *RouteController) UpdatePoint(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid point index"})
		return
	}

	var input struct {
		StopID string `json:"stop_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdatePoint: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.StopID == "" {
		rc.builder.UpdatePoint(index, models.Stop{})
		c.JSON(http.StatusOK, rc.snapshot())
		return
	}

	stop, ok := rc.store.FindStop(input.StopID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stop not found"})
		return
	}
	rc.builder.UpdatePoint(index, stop)
	c.JSON(http.StatusOK, rc.snapshot())
}

// SwapPoints moves a point to a new position; roles follow position.
func (rc *RouteController) SwapPoints(c *gin.Context) {
	var input struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	rc.builder.SwapPoints(input.From, input.To)
	c.JSON(http.StatusOK, rc.snapshot())
}

// StartMapSelection arms the point at index for the next map pick.
func (rc *RouteController) StartMapSelection(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid point index"})
		return
	}
	rc.builder.StartMapSelection(index)
	c.JSON(http.StatusOK, rc.snapshot())
}

// CancelMapSelection disarms without binding.
func (rc *RouteController) CancelMapSelection(c *gin.Context) {
	rc.builder.CancelMapSelection()
	c.JSON(http.StatusOK, rc.snapshot())
}

// SetMeta applies route-level metadata updates.
func (rc *RouteController) SetMeta(c *gin.Context) {
	var input struct {
		RouteName     *string  `json:"route_name"`
		TransportMode *string  `json:"transport_mode"`
		Fare          *float64 `json:"fare"`
		IsFree        *bool    `json:"is_free"`
		IsStrict      *bool    `json:"is_strict"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("SetMeta: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.RouteName != nil {
		rc.builder.SetRouteName(*input.RouteName)
	}
	if input.TransportMode != nil {
		rc.builder.SetTransportMode(*input.TransportMode)
	}
	if input.Fare != nil {
		rc.builder.SetFare(*input.Fare)
	}
	if input.IsFree != nil {
		rc.builder.SetFree(*input.IsFree)
	}
	if input.IsStrict != nil {
		rc.builder.SetStrict(*input.IsStrict)
	}
	c.JSON(http.StatusOK, rc.snapshot())
}

// SaveRoute runs the full save orchestration: pure validation first (all
// errors at once), then resolution, road-path calculation and persistence.
// Fare, flags, waypoints and the computed geometry have no persisted
// destination yet; the path is logged and returned to the caller only.
func (rc *RouteController) SaveRoute(c *gin.Context) {
	snap := rc.builder.Snapshot()
	if !snap.IsBuilding {
		c.JSON(http.StatusConflict, gin.H{"error": "No route build session is active"})
		return
	}

	stops := rc.store.Stops()

	if errs := builder.Validate(snap, stops); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	resolution, err := builder.Resolve(snap, stops)
	if err != nil {
		// Validate passed, so this is a caller contract violation.
		logrus.WithError(err).Error("SaveRoute: resolution failed after validation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pathStops := make([]directions.Stop, len(resolution.OrderedStops))
	for i, s := range resolution.OrderedStops {
		pathStops[i] = directions.Stop{ID: s.ID, Latitude: s.Lat, Longitude: s.Lng}
	}

	result, err := rc.paths.CalculateRoutePath(c.Request.Context(), pathStops, rc.profile, rc.snapRadius)
	if err != nil {
		logrus.WithError(err).Error("SaveRoute: path calculation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to calculate route path"})
		return
	}
	if result == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to calculate route path. Please adjust the stops."})
		return
	}

	record, err := rc.routes.CreateRoute(c.Request.Context(), storage.RouteDefinition{
		Name:          strings.TrimSpace(snap.RouteName),
		VehicleType:   snap.TransportMode,
		OriginID:      resolution.Origin.ID,
		DestinationID: resolution.Destination.ID,
	})
	if err != nil {
		logrus.WithError(err).Error("SaveRoute: failed to persist route definition")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save route"})
		return
	}

	geometry, err := result.GeometryGeoJSON()
	if err != nil {
		logrus.WithError(err).Warn("SaveRoute: failed to encode route geometry")
	}

	logrus.WithFields(logrus.Fields{
		"route_id": record.ID,
		"distance": result.Distance,
		"duration": result.Duration,
	}).Info("SaveRoute: calculated route geometry")

	rc.builder.CancelBuilding()

	c.JSON(http.StatusCreated, gin.H{
		"route":    record,
		"distance": result.Distance,
		"duration": result.Duration,
		"geometry": geometry,
		"color":    markers.RouteColor(record.VehicleType),
	})
}
