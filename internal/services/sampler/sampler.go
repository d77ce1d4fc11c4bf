// Package sampler pushes the courier's position for one order, either from
// single GPS fixes or from a shared maps link re-pushed on an interval.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/maplink"
	"courier-tracking-service/internal/ports"

	"go.uber.org/zap"
)

type Mode string

const (
	ModeGPS  Mode = "gps"
	ModeLink Mode = "link"
)

const DefaultLinkInterval = 10 * time.Second

type Deps struct {
	Orders ports.OrderRepository
	Store  ports.CourierLocationStore
	Events ports.EventPublisher
	Log    *zap.Logger
}

// PushResult reports one write to the location store. Applied is false
// when a newer sample was already stored.
type PushResult struct {
	Location domain.CourierLocation
	Applied  bool
}

// Sampler belongs to one order's courier session. It must be closed to
// stop a running link loop.
type Sampler struct {
	orderID      string
	deps         Deps
	linkInterval time.Duration
	now          func() time.Time

	base   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	mode     Mode
	closed   bool
	stopLoop context.CancelFunc
	loopDone chan struct{}
}

func New(orderID string, deps Deps, linkInterval time.Duration) *Sampler {
	if linkInterval <= 0 {
		linkInterval = DefaultLinkInterval
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Sampler{
		orderID:      orderID,
		deps:         deps,
		linkInterval: linkInterval,
		now:          time.Now,
		base:         base,
		cancel:       cancel,
		mode:         ModeGPS,
	}
}

func (s *Sampler) OrderID() string { return s.orderID }

func (s *Sampler) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches modes. Leaving link mode stops the push loop.
func (s *Sampler) SetMode(m Mode) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSamplerClosed
	}
	s.mode = m
	s.mu.Unlock()

	s.stopLinkLoop()
	return nil
}

// SampleGPS takes one fix from geo and pushes it. Geolocation failures
// are returned as *GeolocationError and not retried.
func (s *Sampler) SampleGPS(ctx context.Context, geo ports.Geolocator) (PushResult, error) {
	s.mu.Lock()
	closed, mode := s.closed, s.mode
	s.mu.Unlock()

	if closed {
		return PushResult{}, ErrSamplerClosed
	}
	if mode != ModeGPS {
		return PushResult{}, ErrModeMismatch
	}
	if _, err := s.loadOrder(ctx); err != nil {
		return PushResult{}, err
	}

	pos, err := geo.CurrentPosition(ctx)
	if err != nil {
		var ge *GeolocationError
		if errors.As(err, &ge) {
			s.deps.Log.Info("geolocation failed",
				zap.String("order_id", s.orderID),
				zap.Int("code", int(ge.Code)),
			)
		}
		return PushResult{}, err
	}

	return s.push(ctx, pos, ModeGPS)
}

// UseLink switches to link mode with the coordinates found in link,
// pushes them at once and then every link interval while the order stays
// trackable. A previous link loop is replaced. No loop is started for an
// order that is no longer trackable.
func (s *Sampler) UseLink(ctx context.Context, link string) (PushResult, error) {
	pos, ok := maplink.Extract(link)
	if !ok {
		return PushResult{}, ErrLinkUnparseable
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return PushResult{}, ErrSamplerClosed
	}

	order, err := s.loadOrder(ctx)
	if err != nil {
		return PushResult{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return PushResult{}, ErrSamplerClosed
	}
	s.mode = ModeLink
	s.mu.Unlock()

	s.stopLinkLoop()

	res, err := s.push(ctx, pos, ModeLink)
	if err != nil {
		return PushResult{}, err
	}

	if order.Trackable() {
		s.startLinkLoop(pos)
	}
	return res, nil
}

func (s *Sampler) loadOrder(ctx context.Context) (*domain.Order, error) {
	order, err := s.deps.Orders.GetOrder(ctx, s.orderID)
	if err != nil {
		return nil, fmt.Errorf("sampler order=%s: %w", s.orderID, err)
	}
	return order, nil
}

// LinkActive reports whether the link push loop is running.
func (s *Sampler) LinkActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopDone != nil
}

// Close stops any running loop. It is idempotent.
func (s *Sampler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.stopLinkLoop()
}

func (s *Sampler) startLinkLoop(pos domain.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.mode != ModeLink {
		return
	}

	// a concurrent UseLink may have started a loop in the meantime
	if s.stopLoop != nil {
		s.stopLoop()
	}

	ctx, stop := context.WithCancel(s.base)
	done := make(chan struct{})
	s.stopLoop, s.loopDone = stop, done

	go s.linkLoop(ctx, pos, done)
}

func (s *Sampler) stopLinkLoop() {
	s.mu.Lock()
	stop, done := s.stopLoop, s.loopDone
	s.stopLoop, s.loopDone = nil, nil
	s.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

func (s *Sampler) linkLoop(ctx context.Context, pos domain.Coordinates, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.linkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		order, err := s.deps.Orders.GetOrder(ctx, s.orderID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, domain.ErrOrderNotFound) {
				s.deps.Log.Info("link push stopped: order not found",
					zap.String("order_id", s.orderID))
				s.detachLoop(done)
				return
			}
			s.deps.Log.Warn("link push: read order failed",
				zap.String("order_id", s.orderID), zap.Error(err))
			continue
		}
		if !order.Trackable() {
			s.deps.Log.Info("link push stopped: order no longer trackable",
				zap.String("order_id", s.orderID),
				zap.String("status", string(order.Status)),
			)
			s.detachLoop(done)
			return
		}

		if _, err := s.push(ctx, pos, ModeLink); err != nil && ctx.Err() == nil {
			s.deps.Log.Warn("link push failed",
				zap.String("order_id", s.orderID), zap.Error(err))
		}
	}
}

// detachLoop forgets a loop that ended on its own.
func (s *Sampler) detachLoop(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loopDone == done {
		s.stopLoop()
		s.stopLoop, s.loopDone = nil, nil
	}
}

func (s *Sampler) push(ctx context.Context, pos domain.Coordinates, source Mode) (PushResult, error) {
	if !pos.Valid() {
		return PushResult{}, fmt.Errorf("push courier location %s: %w", pos, domain.ErrInvalidCoordinates)
	}

	loc := domain.CourierLocation{Coordinates: pos, UpdatedAt: s.now().UTC()}

	applied, err := s.deps.Store.UpdateCourierLocation(ctx, s.orderID, loc)
	if err != nil {
		return PushResult{}, fmt.Errorf("push courier location order=%s: %w", s.orderID, err)
	}
	if !applied {
		s.deps.Log.Debug("stale courier location dropped", zap.String("order_id", s.orderID))
		return PushResult{Location: loc}, nil
	}

	if s.deps.Events != nil {
		err := s.deps.Events.PublishLocationUpdated(ctx, ports.LocationUpdatedEvent{
			OrderID:   s.orderID,
			Lat:       pos.Lat,
			Lng:       pos.Lng,
			Source:    string(source),
			UpdatedAt: loc.UpdatedAt,
		})
		if err != nil {
			s.deps.Log.Warn("publish location event failed",
				zap.String("order_id", s.orderID), zap.Error(err))
		}
	}

	return PushResult{Location: loc, Applied: true}, nil
}
