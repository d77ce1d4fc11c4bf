package display

import "courier-tracking-service/internal/domain"

// Color and label shown for a traffic level.
type TrafficBadge struct {
	Level domain.TrafficLevel `json:"level"`
	Color string              `json:"color"`
	Label string              `json:"label"`
}

var badges = map[domain.TrafficLevel]TrafficBadge{
	domain.TrafficLow:      {Level: domain.TrafficLow, Color: "#22c55e", Label: "حركة خفيفة"},
	domain.TrafficModerate: {Level: domain.TrafficModerate, Color: "#eab308", Label: "حركة متوسطة"},
	domain.TrafficHeavy:    {Level: domain.TrafficHeavy, Color: "#f97316", Label: "حركة كثيفة"},
	domain.TrafficSevere:   {Level: domain.TrafficSevere, Color: "#ef4444", Label: "ازدحام شديد"},
}

// Badge returns the badge for level; ok is false for unknown levels,
// which render no badge.
func Badge(level domain.TrafficLevel) (TrafficBadge, bool) {
	b, ok := badges[level]
	return b, ok
}

// TrafficColor is the polyline color for a congestion level. Unknown
// levels fall back to the flat route color.
func TrafficColor(level domain.TrafficLevel) string {
	if b, ok := badges[level]; ok {
		return b.Color
	}
	return FlatRouteColor
}

const FlatRouteColor = "#3b82f6"
