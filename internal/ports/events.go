package ports

import (
	"context"
	"time"
)

// Published after a courier location write was applied.
type LocationUpdatedEvent struct {
	OrderID   string    `json:"order_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventPublisher interface {
	PublishLocationUpdated(ctx context.Context, ev LocationUpdatedEvent) error
}
