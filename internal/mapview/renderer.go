package mapview

import (
	"errors"
	"sync"

	"courier-tracking-service/internal/display"
	"courier-tracking-service/internal/domain"
)

var ErrRendererClosed = errors.New("mapview: renderer closed")

type Options struct {
	// PaddingRatio pads fit bounds by this share of the larger side.
	PaddingRatio float64
	// MinPadding in degrees keeps single-point scenes from zooming to a dot.
	MinPadding float64
}

func DefaultOptions() Options {
	return Options{PaddingRatio: 0.1, MinPadding: 0.005}
}

type Input struct {
	Store    *domain.Coordinates
	Customer *domain.Coordinates
	Courier  *domain.Coordinates
	Route    *domain.RouteResult
}

// Renderer owns the scene of one map view. It is created when a view
// opens and closed with it; it is safe for concurrent use.
type Renderer struct {
	opts Options

	mu     sync.Mutex
	scene  *Scene
	closed bool
}

func NewRenderer(opts Options) *Renderer {
	if opts.PaddingRatio < 0 {
		opts.PaddingRatio = 0
	}
	if opts.MinPadding < 0 {
		opts.MinPadding = 0
	}
	return &Renderer{opts: opts}
}

// Render replaces the current scene with one built from in. With no valid
// point at all the scene is cleared and ErrNoValidPoints returned.
func (r *Renderer) Render(in Input) (*Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRendererClosed
	}

	// previous markers and lines are dropped before anything is drawn
	r.scene = nil

	scene := &Scene{}
	plotted := make([]domain.Coordinates, 0, 8)

	for _, m := range []struct {
		role Role
		pos  *domain.Coordinates
	}{
		{RoleStore, in.Store},
		{RoleCustomer, in.Customer},
		{RoleCourier, in.Courier},
	} {
		if !domain.ValidPtr(m.pos) {
			continue
		}
		scene.Markers = append(scene.Markers, Marker{
			Role:     m.role,
			Position: *m.pos,
			Color:    roleColors[m.role],
			Pulse:    true,
		})
		plotted = append(plotted, *m.pos)
	}

	if in.Route != nil {
		path := domain.FilterValid(in.Route.Coordinates)
		if len(path) >= 2 {
			scene.Lines = routeLayers(path, in.Route)
			scene.Turns = turnMarkers(in.Route)
			plotted = append(plotted, path...)
		}
	}

	bounds, err := FitBounds(plotted, r.opts.PaddingRatio, r.opts.MinPadding)
	if err != nil {
		return nil, err
	}
	scene.Bounds = bounds

	r.scene = scene
	return scene, nil
}

// Scene returns the last successful render, or nil.
func (r *Renderer) Scene() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.scene = nil
}

// routeLayers draws the shadow, the main line (per traffic segment when
// available, flat otherwise) and the dashed overlay, in that order.
func routeLayers(path []domain.Coordinates, route *domain.RouteResult) []Polyline {
	lines := []Polyline{{
		Kind:    LayerShadow,
		Points:  path,
		Color:   "#1e293b",
		Weight:  10,
		Opacity: 0.35,
	}}

	segmented := false
	if route.HasTraffic() {
		for _, seg := range route.TrafficSegments {
			pts := domain.FilterValid(seg.Coordinates)
			if len(pts) < 2 {
				continue
			}
			segmented = true
			lines = append(lines, Polyline{
				Kind:       LayerMain,
				Points:     pts,
				Color:      display.TrafficColor(seg.CongestionLevel),
				Weight:     6,
				Opacity:    0.95,
				Congestion: seg.CongestionLevel,
			})
		}
	}
	if !segmented {
		lines = append(lines, Polyline{
			Kind:    LayerMain,
			Points:  path,
			Color:   display.FlatRouteColor,
			Weight:  6,
			Opacity: 0.95,
		})
	}

	lines = append(lines, Polyline{
		Kind:      LayerOverlay,
		Points:    path,
		Color:     "#ffffff",
		Weight:    2,
		Opacity:   0.8,
		DashArray: "10, 15",
		Animated:  true,
	})

	return lines
}

func turnMarkers(route *domain.RouteResult) []TurnMarker {
	var out []TurnMarker
	for i, d := range route.TurnPoints() {
		if !d.Location.Valid() {
			continue
		}
		out = append(out, TurnMarker{
			Step:        i + 1,
			Position:    d.Location,
			Instruction: d.Instruction,
			StreetName:  d.StreetName,
		})
	}
	return out
}
