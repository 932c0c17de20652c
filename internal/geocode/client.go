package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"commutewise/internal/models"
)

const defaultBaseURL = "https://api.mapbox.com"

// Client reverse-geocodes a coordinate into an administrative area name
// (the barangay a clicked point falls in). An empty result means the
// provider had no answer, which is not an error.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

func NewClient(accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
	}
}

// NewClientWithBaseURL is for tests pointing at an httptest server.
func NewClientWithBaseURL(accessToken, baseURL string) *Client {
	c := NewClient(accessToken)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type geocodeResponse struct {
	Features []struct {
		Text string `json:"text"`
	} `json:"features"`
}

// ReverseGeocode maps (lat, lng) to an administrative area name, or ""
// when none is found. Non-finite coordinates are rejected outright.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if !models.IsFiniteCoord(lat) || !models.IsFiniteCoord(lng) {
		return "", fmt.Errorf("non-finite coordinates")
	}

	url := fmt.Sprintf(
		"%s/geocoding/v5/mapbox.places/%f,%f.json?types=locality,neighborhood&access_token=%s",
		c.baseURL, lng, lat, c.accessToken,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding request failed: %s", resp.Status)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode geocoding response: %w", err)
	}

	if len(payload.Features) == 0 {
		return "", nil
	}
	return payload.Features[0].Text, nil
}
