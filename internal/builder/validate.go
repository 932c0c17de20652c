package builder

import (
	"fmt"
	"strings"

	"commutewise/internal/models"
)

// Resolution is the outcome of mapping every route point to its concrete
// stop, in sequence order.
type Resolution struct {
	Origin       models.Stop
	Destination  models.Stop
	OrderedStops []models.Stop
}

func pointLabel(index, total int) string {
	switch index {
	case 0:
		return "origin"
	case total - 1:
		return "destination"
	default:
		return fmt.Sprintf("waypoint #%d", index)
	}
}

// Validate checks that a session is save-ready against the current stop
// collection. It returns human-readable error strings, all collected in
// one pass so the caller can present the full remediation list; an empty
// slice means valid.
func Validate(session Session, stops []models.Stop) []string {
	var errs []string

	if strings.TrimSpace(session.RouteName) == "" {
		errs = append(errs, "Route name is required.")
	}

	if len(session.Points) < 2 {
		errs = append(errs, "A route must have at least an origin and a destination.")
	}

	if len(stops) == 0 {
		errs = append(errs, "No stops exist yet. Please create at least one stop first.")
		return errs
	}

	byID := make(map[string]models.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
	}

	for i, p := range session.Points {
		label := pointLabel(i, len(session.Points))
		if !p.Bound() {
			errs = append(errs, fmt.Sprintf("The %s does not have a selected stop.", label))
			continue
		}
		if _, ok := byID[p.StopID]; !ok {
			errs = append(errs, fmt.Sprintf("The %s references a stop that no longer exists. Please re-select it.", label))
		}
	}

	if len(session.Points) >= 2 {
		first := session.Points[0]
		last := session.Points[len(session.Points)-1]
		if first.Bound() && last.Bound() && first.StopID == last.StopID {
			errs = append(errs, "Origin and destination are the same stop. Please choose different stops.")
		}
	}

	return errs
}

// Resolve maps every point to its Stop in order. It assumes Validate has
// already passed; a missing binding or unknown stop id here is a caller
// contract violation and fails loudly.
func Resolve(session Session, stops []models.Stop) (Resolution, error) {
	byID := make(map[string]models.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
	}

	ordered := make([]models.Stop, 0, len(session.Points))
	for i, p := range session.Points {
		if !p.Bound() {
			return Resolution{}, fmt.Errorf("route point at index %d has no stop id", i)
		}
		s, ok := byID[p.StopID]
		if !ok {
			return Resolution{}, fmt.Errorf("stop %q not found in collection while resolving route stops", p.StopID)
		}
		ordered = append(ordered, s)
	}

	if len(ordered) < 2 {
		return Resolution{}, fmt.Errorf("resolved route has fewer than 2 stops")
	}

	return Resolution{
		Origin:       ordered[0],
		Destination:  ordered[len(ordered)-1],
		OrderedStops: ordered,
	}, nil
}
