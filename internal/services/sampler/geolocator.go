package sampler

import (
	"context"
	"fmt"

	"courier-tracking-service/internal/domain"
)

// ReportedPosition adapts a fix the courier device already took (and
// posted to the API) to the Geolocator port. A non-zero ErrorCode is the
// device's geolocation error.
type ReportedPosition struct {
	Position  domain.Coordinates
	ErrorCode int
}

func (p ReportedPosition) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	if p.ErrorCode != 0 {
		return domain.Coordinates{}, NewGeolocationError(p.ErrorCode)
	}
	if !p.Position.Valid() {
		return domain.Coordinates{}, fmt.Errorf("reported position %s: %w", p.Position, domain.ErrInvalidCoordinates)
	}
	return p.Position, nil
}
