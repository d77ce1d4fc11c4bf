// Package mapview turns tracking data into a drawable map scene: role
// markers, a three-layer route polyline, turn markers and fit bounds.
package mapview

import (
	"courier-tracking-service/internal/domain"

	"github.com/paulmach/orb"
)

type Role string

const (
	RoleStore    Role = "store"
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
)

var roleColors = map[Role]string{
	RoleStore:    "#f97316",
	RoleCustomer: "#22c55e",
	RoleCourier:  "#3b82f6",
}

type Marker struct {
	Role     Role
	Position domain.Coordinates
	Color    string
	Pulse    bool
}

type LayerKind string

const (
	LayerShadow  LayerKind = "shadow"
	LayerMain    LayerKind = "main"
	LayerOverlay LayerKind = "overlay"
)

// Polyline is one drawable line. Lines are drawn in slice order.
type Polyline struct {
	Kind       LayerKind
	Points     []domain.Coordinates
	Color      string
	Weight     float64
	Opacity    float64
	DashArray  string
	Animated   bool
	Congestion domain.TrafficLevel
}

type TurnMarker struct {
	Step        int
	Position    domain.Coordinates
	Instruction string
	StreetName  string
}

// Scene is a complete render; it never references a previous one.
type Scene struct {
	Markers []Marker
	Lines   []Polyline
	Turns   []TurnMarker
	Bounds  orb.Bound
}

// LinesOf returns the lines of one layer in draw order.
func (s *Scene) LinesOf(kind LayerKind) []Polyline {
	if s == nil {
		return nil
	}
	out := make([]Polyline, 0, len(s.Lines))
	for _, l := range s.Lines {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

func toPoint(c domain.Coordinates) orb.Point { return orb.Point{c.Lng, c.Lat} }

func toLineString(cs []domain.Coordinates) orb.LineString {
	ls := make(orb.LineString, 0, len(cs))
	for _, c := range cs {
		ls = append(ls, toPoint(c))
	}
	return ls
}
