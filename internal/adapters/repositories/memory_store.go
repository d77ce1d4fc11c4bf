package repositories

import (
	"context"
	"fmt"
	"sync"

	"courier-tracking-service/internal/domain"
)

// MemoryStore is an in-process OrderRepository, CourierLocationStore and
// SharedLocationRepository. It backs tests and the demo mode of trackctl.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	shared map[string][]domain.SharedLocation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[string]domain.Order),
		shared: make(map[string][]domain.SharedLocation),
	}
}

// PutOrder inserts or replaces an order.
func (m *MemoryStore) PutOrder(o domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

// SetStatus changes an order's status; unknown ids are ignored.
func (m *MemoryStore) SetStatus(orderID string, status domain.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok {
		o.Status = status
		m.orders[orderID] = o
	}
}

func (m *MemoryStore) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("get order %q: %w", orderID, domain.ErrOrderNotFound)
	}
	if o.CourierLocation != nil {
		loc := *o.CourierLocation
		o.CourierLocation = &loc
	}
	return &o, nil
}

func (m *MemoryStore) UpdateCourierLocation(_ context.Context, orderID string, loc domain.CourierLocation) (bool, error) {
	if !loc.Valid() {
		return false, fmt.Errorf("update courier location %q: %w", orderID, domain.ErrInvalidCoordinates)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return false, fmt.Errorf("update courier location %q: %w", orderID, domain.ErrOrderNotFound)
	}
	if o.CourierLocation != nil && o.CourierLocation.UpdatedAt.After(loc.UpdatedAt) {
		return false, nil
	}
	o.CourierLocation = &loc
	m.orders[orderID] = o
	return true, nil
}

func (m *MemoryStore) CourierLocation(ctx context.Context, orderID string) (*domain.CourierLocation, error) {
	o, err := m.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.CourierLocation, nil
}

func (m *MemoryStore) SaveSharedLocation(_ context.Context, loc domain.SharedLocation) error {
	if !loc.Valid() {
		return fmt.Errorf("save shared location: %w", domain.ErrInvalidCoordinates)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shared[loc.Phone] = append(m.shared[loc.Phone], loc)
	return nil
}

func (m *MemoryStore) LatestSharedLocation(_ context.Context, phone string) (*domain.SharedLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locs := m.shared[phone]
	if len(locs) == 0 {
		return nil, nil
	}
	latest := locs[0]
	for _, l := range locs[1:] {
		if !l.SharedAt.Before(latest.SharedAt) {
			latest = l
		}
	}
	return &latest, nil
}
