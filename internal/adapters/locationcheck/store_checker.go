package locationcheck

import (
	"context"
	"errors"
	"strings"

	"courier-tracking-service/internal/ports"
)

// StoreChecker answers location checks from the shared-location store.
type StoreChecker struct {
	repo ports.SharedLocationRepository
}

func NewStoreChecker(repo ports.SharedLocationRepository) *StoreChecker {
	return &StoreChecker{repo: repo}
}

func (c *StoreChecker) Check(ctx context.Context, key string) (ports.LocationCheck, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return ports.LocationCheck{}, errors.New("location check: key cannot be empty")
	}

	loc, err := c.repo.LatestSharedLocation(ctx, key)
	if err != nil {
		return ports.LocationCheck{}, err
	}
	if loc == nil || !loc.Valid() {
		return ports.LocationCheck{HasLocation: false}, nil
	}

	return ports.LocationCheck{
		HasLocation: true,
		Location: &ports.CheckLocation{
			Lat:     loc.Lat,
			Lng:     loc.Lng,
			Address: loc.Address,
			URL:     loc.URL,
		},
	}, nil
}
