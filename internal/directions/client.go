package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	geojson "github.com/twpayne/go-geom/encoding/geojson"
)

// DefaultSnapRadiusMeters bounds how far each point may be pulled onto the
// nearest road. 50 m is stable around terminals that sit slightly off-road
// (inside a market, say) without jumping to far-away streets.
const DefaultSnapRadiusMeters = 50

const defaultBaseURL = "https://api.mapbox.com"

// Profile selects the travel mode for path calculation.
type Profile string

const (
	ProfileDriving Profile = "driving"
	ProfileWalking Profile = "walking"
)

// Stop is one ordered input point for path calculation.
type Stop struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Result is the calculated road path.
type Result struct {
	Geometry *geom.LineString `json:"-"`
	Distance float64          `json:"distance"` // meters
	Duration float64          `json:"duration"` // seconds
}

// GeometryGeoJSON re-encodes the path line for API responses.
func (r *Result) GeometryGeoJSON() (string, error) {
	if r == nil || r.Geometry == nil {
		return "", nil
	}
	b, err := geojson.Marshal(r.Geometry)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Client calls the Mapbox Directions API, which runs the actual shortest
// path search on its road graph.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

func NewClient(accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
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

type directionsResponse struct {
	Routes []struct {
		Geometry json.RawMessage `json:"geometry"`
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
	} `json:"routes"`
}

// CalculateRoutePath requests the best road path through the ordered
// stops. It returns (nil, nil) when no path exists or fewer than two stops
// are given; hard failures (network, bad payload) return an error.
func (c *Client) CalculateRoutePath(ctx context.Context, stops []Stop, profile Profile, snapRadiusMeters int) (*Result, error) {
	if len(stops) < 2 {
		logrus.Warn("directions: need at least 2 stops to calculate a path")
		return nil, nil
	}
	if profile == "" {
		profile = ProfileDriving
	}
	if snapRadiusMeters <= 0 {
		snapRadiusMeters = DefaultSnapRadiusMeters
	}

	coords := make([]string, len(stops))
	radiuses := make([]string, len(stops))
	for i, s := range stops {
		// Mapbox expects lng,lat order.
		coords[i] = fmt.Sprintf("%f,%f", s.Longitude, s.Latitude)
		radiuses[i] = strconv.Itoa(snapRadiusMeters)
	}

	url := fmt.Sprintf(
		"%s/directions/v5/mapbox/%s/%s?geometries=geojson&overview=full&radiuses=%s&access_token=%s",
		c.baseURL, profile, strings.Join(coords, ";"), strings.Join(radiuses, ";"), c.accessToken,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions request failed: %s", resp.Status)
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if len(payload.Routes) == 0 {
		logrus.Warn("directions: no routes returned")
		return nil, nil
	}

	best := payload.Routes[0]

	var g geom.T
	if err := geojson.Unmarshal(best.Geometry, &g); err != nil {
		return nil, fmt.Errorf("decode route geometry: %w", err)
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("route geometry is %T, want LineString", g)
	}

	return &Result{
		Geometry: line,
		Distance: best.Distance,
		Duration: best.Duration,
	}, nil
}
