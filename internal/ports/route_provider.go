package ports

import (
	"context"
	"courier-tracking-service/internal/domain"
)

// Contract for retrieving a drivable route between two points.
type RouteProvider interface {
	// Return the route geometry, totals and optional traffic/directions.
	Route(ctx context.Context, origin, destination domain.Coordinates) (*domain.RouteResult, error)
}

// Contract for turning coordinates into a display address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c domain.Coordinates) (string, error)
}
