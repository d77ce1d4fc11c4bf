package domain

import "time"

type OrderKind string

const (
	OrderKindStore OrderKind = "store"
	// Peer-to-peer parcel delivery; StoreLocation holds the pickup point.
	OrderKindSpecial OrderKind = "special"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Last known position of the courier assigned to an order.
// There is no history: every sample overwrites the previous one.
type CourierLocation struct {
	Coordinates
	UpdatedAt time.Time `json:"updated_at"`
}

// Order carries only the fields the tracking pipeline reads.
// StoreLocation and CustomerLocation are snapshots captured when the order
// was created or verified and are never modified afterwards.
type Order struct {
	ID               string
	Kind             OrderKind
	Status           OrderStatus
	CourierID        string
	CustomerPhone    string
	StoreLocation    *Coordinates
	CustomerLocation *Coordinates
	CourierLocation  *CourierLocation
}

// Trackable reports whether a courier is actively ferrying the order.
func (o *Order) Trackable() bool {
	if o == nil || o.CourierID == "" {
		return false
	}
	return o.Status == OrderStatusPickedUp || o.Status == OrderStatusOnTheWay
}
