package main

import (
	"context"
	"log"
	"net/http"

	"github.com/sirupsen/logrus"

	"commutewise/internal/builder"
	"commutewise/internal/config"
	"commutewise/internal/controllers"
	"commutewise/internal/directions"
	"commutewise/internal/geocode"
	"commutewise/internal/logger"
	"commutewise/internal/middleware"
	"commutewise/internal/routes"
	"commutewise/internal/session"
	"commutewise/internal/storage"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	cfg := config.Load()

	// Database + persistence collaborators
	db := config.InitDB()
	stopStorage := storage.NewStopStorage(db)
	routeStorage := storage.NewRouteStorage(db)

	// External collaborators
	paths := directions.NewClient(cfg.MapboxToken)
	geocoder := geocode.NewClient(cfg.MapboxToken)

	// Application stores: one stop session store, one route builder,
	// joined by the click dispatcher
	store := session.NewStore(stopStorage)
	routeBuilder := builder.New()
	dispatcher := session.NewDispatcher(store, routeBuilder)

	if err := store.FetchAll(context.Background()); err != nil {
		logrus.WithError(err).Warn("initial stop fetch failed; starting with an empty collection")
	}

	stopController := controllers.NewStopController(store, dispatcher, geocoder)
	routeController := controllers.NewRouteController(
		routeBuilder, store, routeStorage, paths,
		directions.Profile(cfg.DirectionsProfile), cfg.SnapRadiusMeters,
	)

	r := routes.SetupRouter(stopController, routeController)

	// Wrap with CORS for the embedded admin UI
	handler := middleware.EnableCORS(r)

	log.Printf("🚀 Server running at %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
