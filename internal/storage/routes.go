package storage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RouteRecord is the routes table row. The schema deliberately carries
// only the high-level edge (origin -> destination with a name and vehicle
// type); fare, strict/free flags, intermediate waypoints and the computed
// path geometry have no column yet. Extending this (extra columns or a
// route_stops join table) is a known follow-up, not something to invent
// here.
type RouteRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name          string `json:"name"`
	VehicleType   string `json:"vehicle_type"`
	OriginID      string `json:"origin_id"`
	DestinationID string `json:"destination_id"`
}

func (RouteRecord) TableName() string { return "routes" }

// RouteDefinition is the accepted create contract.
type RouteDefinition struct {
	Name          string
	VehicleType   string
	OriginID      string
	DestinationID string
}

// RouteStorage is the gorm-backed persistence collaborator for routes.
type RouteStorage struct {
	db *gorm.DB
}

func NewRouteStorage(db *gorm.DB) *RouteStorage {
	return &RouteStorage{db: db}
}

// CreateRoute persists a route definition. The vehicle type is normalized
// to lower case on the way in.
func (s *RouteStorage) CreateRoute(ctx context.Context, def RouteDefinition) (RouteRecord, error) {
	record := RouteRecord{
		ID:            uuid.NewString(),
		Name:          def.Name,
		VehicleType:   strings.ToLower(def.VehicleType),
		OriginID:      def.OriginID,
		DestinationID: def.DestinationID,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return RouteRecord{}, err
	}
	return record, nil
}

// ListRoutes returns every stored route definition.
func (s *RouteStorage) ListRoutes(ctx context.Context) ([]RouteRecord, error) {
	var records []RouteRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Migrate creates the stop and route tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&StopRecord{}, &RouteRecord{})
}
