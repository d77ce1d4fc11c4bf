// Package tracking drives the viewer side of live tracking: it reads the
// order and courier position, fetches the route, renders the map scene and
// derives the status panel on every refresh.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courier-tracking-service/internal/display"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/maplink"
	"courier-tracking-service/internal/mapview"
	"courier-tracking-service/internal/platform/obs"
	"courier-tracking-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionClosed = errors.New("tracking: session closed")
	// ErrSuperseded means a newer refresh started before this one finished;
	// its result was discarded.
	ErrSuperseded = errors.New("tracking: refresh superseded")
)

const DefaultRefreshInterval = 3 * time.Second

type Deps struct {
	Orders    ports.OrderRepository
	Locations ports.CourierLocationStore
	Routes    ports.RouteProvider
	Log       *zap.Logger
}

// Snapshot is the state of a session after its latest applied refresh.
type Snapshot struct {
	OrderID       string
	Status        display.Status
	Scene         *mapview.Scene
	Route         *domain.RouteResult
	Store         *domain.Coordinates
	Customer      *domain.Coordinates
	Courier       *domain.CourierLocation
	NavigationURL string
	RefreshedAt   time.Time
}

// Session is the live view of one order. Results of a refresh are applied
// only if the session is open and no newer refresh has started.
type Session struct {
	orderID  string
	deps     Deps
	renderer *mapview.Renderer
	now      func() time.Time

	base   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	closed   bool
	route    *domain.RouteResult
	snapshot Snapshot
}

func NewSession(orderID string, deps Deps, opts mapview.Options) *Session {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Session{
		orderID:  orderID,
		deps:     deps,
		renderer: mapview.NewRenderer(opts),
		now:      time.Now,
		base:     base,
		cancel:   cancel,
		snapshot: Snapshot{
			OrderID: orderID,
			Status:  display.BuildStatus(display.StateLoading, nil),
		},
	}
}

func (s *Session) OrderID() string { return s.orderID }

// Snapshot returns the latest applied state; before the first refresh it
// is in the loading state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

type endpoints struct {
	order   *domain.Order
	courier *domain.CourierLocation
}

// Refresh runs one read-route-render cycle. A failed route fetch keeps the
// previous route. Closing the session cancels a refresh in flight.
func (s *Session) Refresh(ctx context.Context) (_ Snapshot, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.base, cancel)
	defer stop()

	defer obs.Time(ctx, s.deps.Log, "tracking.Refresh")(&err)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	s.gen++
	gen := s.gen
	prevRoute := s.route
	s.mu.Unlock()

	ep, err := s.readEndpoints(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	var (
		customer = ep.order.CustomerLocation
		courier  = ep.courier
		route    *domain.RouteResult
		state    display.ViewState
	)

	switch {
	case courier == nil || !courier.Valid() || !domain.ValidPtr(customer):
		state = display.StateNoData
	default:
		route, err = s.deps.Routes.Route(ctx, courier.Coordinates, *customer)
		if err != nil {
			if ctx.Err() != nil {
				return Snapshot{}, ctx.Err()
			}
			s.deps.Log.Warn("route fetch failed, keeping previous route",
				zap.String("order_id", s.orderID),
				zap.Bool("has_previous", prevRoute != nil),
				zap.Error(err),
			)
			route = prevRoute
		}
		state = display.StateHasRoute
		if route == nil {
			state = display.StateNoRoute
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrSessionClosed
	}
	if gen != s.gen {
		return Snapshot{}, ErrSuperseded
	}

	snap := Snapshot{
		OrderID:     s.orderID,
		Status:      display.BuildStatus(state, route),
		Route:       route,
		Store:       ep.order.StoreLocation,
		Customer:    customer,
		Courier:     courier,
		RefreshedAt: s.now(),
	}
	if domain.ValidPtr(customer) {
		snap.NavigationURL = maplink.DirectionsURL(*customer)
	}

	in := mapview.Input{Store: ep.order.StoreLocation, Customer: customer, Route: route}
	if courier != nil {
		pos := courier.Coordinates
		in.Courier = &pos
	}

	scene, err := s.renderer.Render(in)
	switch {
	case errors.Is(err, mapview.ErrNoValidPoints):
		snap.Status.Message = display.NoCoordinatesMessage
	case err != nil:
		return Snapshot{}, fmt.Errorf("tracking: render order=%s: %w", s.orderID, err)
	default:
		snap.Scene = scene
	}

	s.route = route
	s.snapshot = snap
	return snap, nil
}

// readEndpoints loads the order and the live courier position together.
// The newer of the order's stored position and the live store wins.
func (s *Session) readEndpoints(ctx context.Context) (endpoints, error) {
	var ep endpoints
	var live *domain.CourierLocation

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := s.deps.Orders.GetOrder(gctx, s.orderID)
		if err != nil {
			return err
		}
		ep.order = o
		return nil
	})
	if s.deps.Locations != nil {
		g.Go(func() error {
			loc, err := s.deps.Locations.CourierLocation(gctx, s.orderID)
			if err != nil {
				return err
			}
			live = loc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return endpoints{}, fmt.Errorf("tracking: read order=%s: %w", s.orderID, err)
	}

	ep.courier = ep.order.CourierLocation
	if live != nil && (ep.courier == nil || !live.UpdatedAt.Before(ep.courier.UpdatedAt)) {
		ep.courier = live
	}
	return ep, nil
}

// Run refreshes now and then every interval until ctx is done or the
// session is closed. onUpdate, when set, receives each applied snapshot.
func (s *Session) Run(ctx context.Context, interval time.Duration, onUpdate func(Snapshot)) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := s.Refresh(ctx)
		switch {
		case errors.Is(err, ErrSessionClosed):
			return err
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.deps.Log.Warn("tracking refresh failed",
				zap.String("order_id", s.orderID), zap.Error(err))
		case onUpdate != nil:
			onUpdate(snap)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.base.Done():
			return ErrSessionClosed
		case <-ticker.C:
		}
	}
}

// Close stops the session and its renderer. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.renderer.Close()
}
