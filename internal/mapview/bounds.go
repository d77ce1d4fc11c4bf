package mapview

import (
	"errors"
	"math"

	"courier-tracking-service/internal/domain"

	"github.com/paulmach/orb"
)

var ErrNoValidPoints = errors.New("mapview: no valid points")

// FitBounds returns the box containing every valid point, padded on each
// side by ratio of its larger side and by at least minPad degrees.
// Invalid points are ignored.
func FitBounds(points []domain.Coordinates, ratio, minPad float64) (orb.Bound, error) {
	valid := domain.FilterValid(points)
	if len(valid) == 0 {
		return orb.Bound{}, ErrNoValidPoints
	}

	b := toPoint(valid[0]).Bound()
	for _, p := range valid[1:] {
		b = b.Extend(toPoint(p))
	}

	size := math.Max(b.Max.X()-b.Min.X(), b.Max.Y()-b.Min.Y())
	pad := math.Max(size*ratio, minPad)
	b = b.Pad(pad)

	b.Min[0] = math.Max(b.Min[0], -180)
	b.Min[1] = math.Max(b.Min[1], -90)
	b.Max[0] = math.Min(b.Max[0], 180)
	b.Max[1] = math.Min(b.Max[1], 90)

	return b, nil
}
