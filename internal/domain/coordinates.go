package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (latitude, longitude) in WGS 84 degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and inside the
// -90..90 / -180..180 ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) LonLat() []float64 { return []float64{c.Lng, c.Lat} }

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// FilterValid returns the valid points in their original order.
// Invalid points are dropped without error.
func FilterValid(points []Coordinates) []Coordinates {
	out := make([]Coordinates, 0, len(points))
	for _, p := range points {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// ValidPtr is nil-safe: a missing point is never valid.
func ValidPtr(c *Coordinates) bool {
	return c != nil && c.Valid()
}
