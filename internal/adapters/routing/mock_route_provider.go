package routing

import (
	"context"
	"fmt"
	"sync"

	"courier-tracking-service/internal/domain"
)

// MockRouteProvider returns canned routes per origin/destination pair,
// or the fallback route when one is set. Calls are counted.
type MockRouteProvider struct {
	mu       sync.Mutex
	routes   map[string]*domain.RouteResult
	fallback *domain.RouteResult
	err      error
	calls    int
}

func NewMockRouteProvider() *MockRouteProvider {
	return &MockRouteProvider{routes: make(map[string]*domain.RouteResult)}
}

func mockKey(origin, destination domain.Coordinates) string {
	return origin.String() + "|" + destination.String()
}

func (p *MockRouteProvider) Set(origin, destination domain.Coordinates, r *domain.RouteResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[mockKey(origin, destination)] = r
}

// SetFallback answers every pair without an explicit route.
func (p *MockRouteProvider) SetFallback(r *domain.RouteResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = r
}

// FailWith makes every call fail with err until cleared with nil.
func (p *MockRouteProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockRouteProvider) Route(ctx context.Context, origin, destination domain.Coordinates) (*domain.RouteResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}

	if r, ok := p.routes[mockKey(origin, destination)]; ok {
		return r, nil
	}
	if p.fallback != nil {
		return p.fallback, nil
	}
	return nil, fmt.Errorf("missing route %s -> %s", origin, destination)
}
