package ports

import "context"

// Location-check payload: whether a delivered location exists for a key.
type LocationCheck struct {
	HasLocation bool           `json:"has_location"`
	Location    *CheckLocation `json:"location,omitempty"`
}

type CheckLocation struct {
	Lat     float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng     float64 `json:"lng" validate:"gte=-180,lte=180"`
	Address string  `json:"address"`
	URL     string  `json:"url"`
}

// Contract for the location-check collaborator (phone or order key).
type LocationChecker interface {
	Check(ctx context.Context, key string) (LocationCheck, error)
}
