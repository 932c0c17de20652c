package storage

import (
	"context"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"commutewise/internal/models"
)

// StopRecord is the stops table row. Column names follow the wire schema:
// lat/lng travel as latitude/longitude, vehicle types as a text array.
type StopRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Barangay     string         `json:"barangay"`
	VehicleTypes pq.StringArray `gorm:"type:text[]" json:"vehicle_types"`
}

func (StopRecord) TableName() string { return "stops" }

func toStopRecord(s models.Stop) StopRecord {
	return StopRecord{
		ID:           s.ID,
		Name:         s.Name,
		Type:         strings.ToLower(string(s.Type)),
		Latitude:     s.Lat,
		Longitude:    s.Lng,
		Barangay:     s.Barangay,
		VehicleTypes: pq.StringArray(s.VehicleTypes),
	}
}

func (r StopRecord) toStop() models.Stop {
	t := strings.ToLower(r.Type)
	if t == "" {
		t = string(models.StopTypeStop)
	}
	name := r.Name
	if name == "" {
		name = "Unnamed"
	}
	return models.Stop{
		ID:           r.ID,
		Name:         name,
		Type:         models.StopType(t),
		Lat:          r.Latitude,
		Lng:          r.Longitude,
		Barangay:     r.Barangay,
		VehicleTypes: []string(r.VehicleTypes),
	}
}

// StopStorage is the gorm-backed persistence collaborator for stops.
type StopStorage struct {
	db *gorm.DB
}

func NewStopStorage(db *gorm.DB) *StopStorage {
	return &StopStorage{db: db}
}

// ListStops returns every stored stop. Coordinate filtering is the
// caller's concern; storage reports rows as they are.
func (s *StopStorage) ListStops(ctx context.Context) ([]models.Stop, error) {
	var records []StopRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	stops := make([]models.Stop, 0, len(records))
	for _, r := range records {
		stops = append(stops, r.toStop())
	}
	return stops, nil
}

// UpsertStop creates or replaces by id, so re-saving a draft never
// duplicates it.
func (s *StopStorage) UpsertStop(ctx context.Context, stop models.Stop) (models.Stop, error) {
	record := toStopRecord(stop)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&record).Error
	if err != nil {
		return models.Stop{}, err
	}
	return record.toStop(), nil
}

// DeleteStop removes a stop by id. Deleting an unknown id is not an error.
func (s *StopStorage) DeleteStop(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&StopRecord{}).Error
}
