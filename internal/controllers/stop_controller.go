package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"commutewise/internal/models"
	"commutewise/internal/session"
)

// Geocoder is the reverse-geocoding collaborator.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// StopController exposes the stop session store over HTTP. Handlers are
// thin delegates; all click/selection semantics live in the store and the
// dispatcher.
type StopController struct {
	store      *session.Store
	dispatcher *session.Dispatcher
	geocoder   Geocoder
}

func NewStopController(store *session.Store, dispatcher *session.Dispatcher, geocoder Geocoder) *StopController {
	return &StopController{store: store, dispatcher: dispatcher, geocoder: geocoder}
}

func (sc *StopController) sessionState() gin.H {
	return gin.H{
		"stops":      sc.store.Stops(),
		"selected":   sc.store.Selected(),
		"ghost":      sc.store.Ghost(),
		"is_loading": sc.store.IsLoading(),
	}
}

// ListStops refreshes the collection from storage and returns it.
func (sc *StopController) ListStops(c *gin.Context) {
	if err := sc.store.FetchAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch stops"})
		return
	}
	c.JSON(http.StatusOK, sc.sessionState())
}

// ClickMap dispatches a raw map click. Non-finite coordinates are a no-op
// by store contract, so the handler always answers with current state.
func (sc *StopController) ClickMap(c *gin.Context) {
	var input struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("ClickMap: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	sc.dispatcher.MapClick(input.Lat, input.Lng)
	c.JSON(http.StatusOK, sc.sessionState())
}

// SelectStop selects an existing stop by id, or clears the selection when
// the id is null. Selecting goes through the dispatcher: while a route
// point is armed, the pick binds to that point instead of opening the edit
// flow.
func (sc *StopController) SelectStop(c *gin.Context) {
	var input struct {
		ID *string `json:"id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("SelectStop: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.ID == nil {
		sc.store.SelectStop(nil)
		c.JSON(http.StatusOK, sc.sessionState())
		return
	}

	stop, ok := sc.store.FindStop(*input.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stop not found"})
		return
	}

	sc.dispatcher.MarkerClick(stop)
	c.JSON(http.StatusOK, sc.sessionState())
}

// SaveStop upserts the submitted stop. A blank name is an input rejection,
// surfaced as a validation message rather than an exception.
func (sc *StopController) SaveStop(c *gin.Context) {
	var stop models.Stop
	if err := c.ShouldBindJSON(&stop); err != nil {
		logrus.WithError(err).Warn("SaveStop: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if strings.TrimSpace(stop.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Stop name is required."}})
		return
	}
	if !stop.HasFiniteCoords() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Stop coordinates must be finite numbers."}})
		return
	}

	saved, err := sc.dispatcher.SaveStop(c.Request.Context(), stop)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save stop"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stop": saved, "state": sc.sessionState()})
}

// DeleteStop removes a stop from storage and the collection.
func (sc *StopController) DeleteStop(c *gin.Context) {
	id := c.Param("id")
	if err := sc.store.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete stop"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stop deleted successfully", "state": sc.sessionState()})
}

// ReverseGeocode maps a coordinate to its barangay name for the stop form.
func (sc *StopController) ReverseGeocode(c *gin.Context) {
	var input struct {
		Lat float64 `form:"lat" binding:"required"`
		Lng float64 `form:"lng" binding:"required"`
	}
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	barangay, err := sc.geocoder.ReverseGeocode(c.Request.Context(), input.Lat, input.Lng)
	if err != nil {
		logrus.WithError(err).Warn("ReverseGeocode: lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reverse geocode"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"barangay": barangay})
}
