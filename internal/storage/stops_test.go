package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"commutewise/internal/models"
)

func TestToStopRecordMapsWireFields(t *testing.T) {
	record := toStopRecord(models.Stop{
		ID:           "s1",
		Name:         "Bayan Terminal",
		Type:         "TERMINAL",
		Lat:          14.676,
		Lng:          121.0423,
		Barangay:     "San Roque",
		VehicleTypes: []string{"Jeepney", "Tricycle"},
	})

	assert.Equal(t, 14.676, record.Latitude)
	assert.Equal(t, 121.0423, record.Longitude)
	assert.Equal(t, "terminal", record.Type)
	assert.Equal(t, []string{"Jeepney", "Tricycle"}, []string(record.VehicleTypes))
}

func TestToStopDefaultsBlankFields(t *testing.T) {
	stop := StopRecord{ID: "s1", Latitude: 1, Longitude: 2}.toStop()

	assert.Equal(t, "Unnamed", stop.Name)
	assert.Equal(t, models.StopTypeStop, stop.Type)
	assert.Equal(t, 1.0, stop.Lat)
	assert.Equal(t, 2.0, stop.Lng)
}

func TestToStopNormalizesTypeCase(t *testing.T) {
	stop := StopRecord{ID: "s1", Type: "Terminal", Latitude: 1, Longitude: 2}.toStop()
	assert.Equal(t, models.StopTypeTerminal, stop.Type)
}
