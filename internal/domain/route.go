package domain

type TrafficLevel string

const (
	TrafficUnknown  TrafficLevel = ""
	TrafficLow      TrafficLevel = "low"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHeavy    TrafficLevel = "heavy"
	TrafficSevere   TrafficLevel = "severe"
)

// ParseTrafficLevel maps a wire value to a level; anything else is unknown.
func ParseTrafficLevel(s string) TrafficLevel {
	switch TrafficLevel(s) {
	case TrafficLow, TrafficModerate, TrafficHeavy, TrafficSevere:
		return TrafficLevel(s)
	}
	return TrafficUnknown
}

// A contiguous sub-path of a route sharing one congestion level.
// Segments of a route partition it in path order.
type TrafficSegment struct {
	Coordinates     []Coordinates
	CongestionLevel TrafficLevel
	DistanceKM      float64
}

// One maneuver point of a route.
type DirectionInstruction struct {
	Instruction     string
	StreetName      string
	DistanceMeters  float64
	DurationSeconds float64
	Location        Coordinates
}

// RouteResult is recomputed on every poll and never persisted.
type RouteResult struct {
	Coordinates     []Coordinates
	DistanceKM      float64
	DurationMinutes float64
	TrafficLevel    TrafficLevel
	TrafficSegments []TrafficSegment
	Directions      []DirectionInstruction
}

// TurnPoints returns the interior instructions. The first and last entries
// are the origin and destination and are not drawn as turns.
func (r *RouteResult) TurnPoints() []DirectionInstruction {
	if r == nil || len(r.Directions) <= 2 {
		return nil
	}
	return r.Directions[1 : len(r.Directions)-1]
}

// SegmentsDistanceKM sums the distance of all traffic segments.
func (r *RouteResult) SegmentsDistanceKM() float64 {
	if r == nil {
		return 0
	}
	total := 0.0
	for _, s := range r.TrafficSegments {
		total += s.DistanceKM
	}
	return total
}

// HasTraffic reports whether the route can be drawn traffic-aware.
func (r *RouteResult) HasTraffic() bool {
	return r != nil && len(r.TrafficSegments) > 0
}
