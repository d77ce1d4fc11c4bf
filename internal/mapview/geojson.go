package mapview

import (
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection exports the scene for web map clients. Features keep
// draw order: lines, then markers, then turn markers. The fit bounds are
// attached as the collection's bbox.
func (s *Scene) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if s == nil {
		return fc
	}

	for i, l := range s.Lines {
		f := geojson.NewFeature(toLineString(l.Points))
		f.Properties["kind"] = "route"
		f.Properties["layer"] = string(l.Kind)
		f.Properties["order"] = i
		f.Properties["color"] = l.Color
		f.Properties["weight"] = l.Weight
		f.Properties["opacity"] = l.Opacity
		if l.DashArray != "" {
			f.Properties["dash_array"] = l.DashArray
		}
		if l.Animated {
			f.Properties["animated"] = true
		}
		if l.Congestion != "" {
			f.Properties["congestion"] = string(l.Congestion)
		}
		fc.Append(f)
	}

	for _, m := range s.Markers {
		f := geojson.NewFeature(toPoint(m.Position))
		f.Properties["kind"] = "marker"
		f.Properties["role"] = string(m.Role)
		f.Properties["color"] = m.Color
		f.Properties["pulse"] = m.Pulse
		fc.Append(f)
	}

	for _, t := range s.Turns {
		f := geojson.NewFeature(toPoint(t.Position))
		f.Properties["kind"] = "turn"
		f.Properties["step"] = t.Step
		f.Properties["instruction"] = t.Instruction
		if t.StreetName != "" {
			f.Properties["street_name"] = t.StreetName
		}
		fc.Append(f)
	}

	fc.BBox = geojson.NewBBox(s.Bounds)
	return fc
}
