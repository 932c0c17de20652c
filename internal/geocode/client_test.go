package geocode

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseGeocodeReturnsFirstFeature(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"features": [{"text": "San Roque"}, {"text": "Marikina"}]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	name, err := client.ReverseGeocode(context.Background(), 14.676, 121.0423)

	require.NoError(t, err)
	assert.Equal(t, "San Roque", name)
	assert.Contains(t, gotPath, "/geocoding/v5/mapbox.places/")
}

func TestReverseGeocodeNoFeaturesIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	name, err := client.ReverseGeocode(context.Background(), 14.676, 121.0423)

	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestReverseGeocodeRejectsNonFiniteCoords(t *testing.T) {
	client := NewClient("test-token")

	_, err := client.ReverseGeocode(context.Background(), math.NaN(), 121.0)
	assert.Error(t, err)

	_, err = client.ReverseGeocode(context.Background(), 14.6, math.Inf(1))
	assert.Error(t, err)
}

func TestReverseGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	_, err := client.ReverseGeocode(context.Background(), 14.6, 121.0)
	assert.Error(t, err)
}
