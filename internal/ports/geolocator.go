package ports

import (
	"context"
	"courier-tracking-service/internal/domain"
)

// Single-shot device position source. Implementations report failures
// with browser-compatible codes (see sampler.GeolocationError).
type Geolocator interface {
	CurrentPosition(ctx context.Context) (domain.Coordinates, error)
}
