package sampler

import (
	"sync"
	"time"
)

type managed struct {
	sampler  *Sampler
	lastUsed time.Time
}

// Manager owns one Sampler per order for the courier-facing API. Samplers
// without a running link loop that go unused for longer than the idle TTL
// are closed by a background janitor.
type Manager struct {
	deps         Deps
	linkInterval time.Duration
	idleTTL      time.Duration
	now          func() time.Time

	mu       sync.Mutex
	samplers map[string]*managed
	done     chan struct{}
	stopped  chan struct{}
}

func NewManager(deps Deps, linkInterval, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	m := &Manager{
		deps:         deps,
		linkInterval: linkInterval,
		idleTTL:      idleTTL,
		now:          time.Now,
		samplers:     make(map[string]*managed),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Get returns the order's sampler, creating it on first use. After Close
// it returns an untracked sampler that is already closed.
func (m *Manager) Get(orderID string) *Sampler {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		s := New(orderID, m.deps, m.linkInterval)
		s.Close()
		return s
	default:
	}

	e, ok := m.samplers[orderID]
	if !ok {
		e = &managed{sampler: New(orderID, m.deps, m.linkInterval)}
		m.samplers[orderID] = e
	}
	e.lastUsed = m.now()
	return e.sampler
}

// Stop closes and forgets the order's sampler, if any.
func (m *Manager) Stop(orderID string) {
	m.mu.Lock()
	e, ok := m.samplers[orderID]
	delete(m.samplers, orderID)
	m.mu.Unlock()

	if ok {
		e.sampler.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.samplers)
}

func (m *Manager) cleanupLoop() {
	defer close(m.stopped)

	ticker := time.NewTicker(m.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

// reap closes idle samplers. A sampler still pushing a link is kept; once
// its loop ends on its own it becomes idle from its last use.
func (m *Manager) reap() {
	m.mu.Lock()
	cutoff := m.now().Add(-m.idleTTL)
	var idle []*Sampler
	for id, e := range m.samplers {
		if e.sampler.LinkActive() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e.sampler)
			delete(m.samplers, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
}

// Close stops the janitor and every sampler.
func (m *Manager) Close() {
	m.mu.Lock()
	select {
	case <-m.done:
		m.mu.Unlock()
		return
	default:
	}
	close(m.done)
	all := m.samplers
	m.samplers = make(map[string]*managed)
	m.mu.Unlock()

	<-m.stopped
	for _, e := range all {
		e.sampler.Close()
	}
}
