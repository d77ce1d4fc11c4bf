package routing

import (
	"errors"
	"fmt"
	"math"

	"courier-tracking-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidResponse marks a collaborator response whose shape does not
// match the contract. It is never silently defaulted.
var ErrInvalidResponse = errors.New("invalid response shape")

var validate = validator.New()

func validateWire(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Segment distances may drift from the route total by rounding; beyond this
// they are treated as describing a different path.
const (
	segmentToleranceRatio = 0.05
	segmentToleranceKM    = 0.05
)

// segmentsConsistent reports whether the segment distances add up to the
// route distance within tolerance.
func segmentsConsistent(r *domain.RouteResult) bool {
	if len(r.TrafficSegments) == 0 {
		return true
	}
	diff := math.Abs(r.SegmentsDistanceKM() - r.DistanceKM)
	return diff <= math.Max(r.DistanceKM*segmentToleranceRatio, segmentToleranceKM)
}

// checkRanges rejects a converted route whose points or turn locations
// fall outside valid latitude and longitude.
func checkRanges(r *domain.RouteResult) error {
	for i, c := range r.Coordinates {
		if !c.Valid() {
			return fmt.Errorf("%w: route point %d out of range (%s)", ErrInvalidResponse, i, c)
		}
	}
	for i, s := range r.TrafficSegments {
		for _, c := range s.Coordinates {
			if !c.Valid() {
				return fmt.Errorf("%w: traffic segment %d point out of range (%s)", ErrInvalidResponse, i, c)
			}
		}
	}
	for i, d := range r.Directions {
		if !d.Location.Valid() {
			return fmt.Errorf("%w: direction %d location out of range (%s)", ErrInvalidResponse, i, d.Location)
		}
	}
	return nil
}

// finalizeRoute range-checks the route and drops traffic segments that do
// not partition it, which degrades the route to a flat single-color line.
func finalizeRoute(r *domain.RouteResult, log *zap.Logger) (*domain.RouteResult, error) {
	if err := checkRanges(r); err != nil {
		return nil, err
	}
	if !segmentsConsistent(r) {
		if log != nil {
			log.Warn("dropping inconsistent traffic segments",
				zap.Float64("route_km", r.DistanceKM),
				zap.Float64("segments_km", r.SegmentsDistanceKM()),
				zap.Int("segments", len(r.TrafficSegments)),
			)
		}
		r.TrafficSegments = nil
	}
	return r, nil
}

// latLngPairs converts [lat, lng] pairs; pair length is validated upstream.
func latLngPairs(pairs [][]float64) []domain.Coordinates {
	out := make([]domain.Coordinates, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, domain.Coordinates{Lat: p[0], Lng: p[1]})
	}
	return out
}
