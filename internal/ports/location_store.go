package ports

import (
	"context"
	"courier-tracking-service/internal/domain"
)

// Port: a boundary for reading orders from the backing store.
type OrderRepository interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// Port: the single shared mutable resource of the tracking pipeline.
type CourierLocationStore interface {
	// UpdateCourierLocation writes loc unless a newer sample is already
	// stored. applied is false when the write was dropped as stale.
	UpdateCourierLocation(ctx context.Context, orderID string, loc domain.CourierLocation) (applied bool, err error)
	// CourierLocation returns nil when nothing was recorded yet.
	CourierLocation(ctx context.Context, orderID string) (*domain.CourierLocation, error)
}

// Port: locations customers shared over a messaging channel.
type SharedLocationRepository interface {
	SaveSharedLocation(ctx context.Context, loc domain.SharedLocation) error
	// LatestSharedLocation returns nil when the phone never shared one.
	LatestSharedLocation(ctx context.Context, phone string) (*domain.SharedLocation, error)
}
