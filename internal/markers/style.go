package markers

import "strings"

// Style describes how a stop marker is drawn. Color is a hex value,
// ColorClass the matching utility class for list chips, Icon an emoji
// glyph shown inside the marker.
type Style struct {
	Color      string `json:"color"`
	ColorClass string `json:"color_class"`
	Icon       string `json:"icon"`
}

// StyleFor derives a marker style from the stop's allowed vehicle types.
// More than one type wins the mixed style; a single type maps
// deterministically; anything unknown (or an empty set) falls back to the
// neutral pin.
func StyleFor(vehicleTypes []string) Style {
	if len(vehicleTypes) > 1 {
		return Style{Color: "#EAB308", ColorClass: "bg-yellow-500", Icon: "🚍"}
	}

	var t string
	if len(vehicleTypes) == 1 {
		t = vehicleTypes[0]
	}

	switch t {
	case "Bus":
		return Style{Color: "#3B82F6", ColorClass: "bg-blue-500", Icon: "🚍"}
	case "Jeepney":
		return Style{Color: "#8B5CF6", ColorClass: "bg-violet-500", Icon: "🚍"}
	case "E-Jeepney":
		return Style{Color: "#D946EF", ColorClass: "bg-fuchsia-500", Icon: "🚍"}
	case "Tricycle":
		return Style{Color: "#22C55E", ColorClass: "bg-green-500", Icon: "🛺"}
	default:
		return Style{Color: "#64748B", ColorClass: "bg-slate-500", Icon: "📍"}
	}
}

// RouteColor picks the line color for a rendered route by vehicle type.
func RouteColor(vehicleType string) string {
	switch strings.ToLower(strings.TrimSpace(vehicleType)) {
	case "tricycle":
		return "#22c55e"
	case "mixed", "jeep", "jeepney":
		return "#eab308"
	default:
		return "#64748b"
	}
}
