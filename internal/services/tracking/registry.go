package tracking

import (
	"sync"
	"time"

	"courier-tracking-service/internal/mapview"
)

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Registry owns one Session per order for the HTTP API. Sessions unused
// for longer than the idle TTL are closed by a background janitor.
type Registry struct {
	deps    Deps
	opts    mapview.Options
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	done     chan struct{}
	stopped  chan struct{}
}

func NewRegistry(deps Deps, opts mapview.Options, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Minute
	}
	r := &Registry{
		deps:     deps,
		opts:     opts,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*entry),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	go r.cleanupLoop()

	return r
}

// Session returns the order's session, creating it on first use. After
// Close it returns an untracked session that is already closed.
func (r *Registry) Session(orderID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-r.done:
		s := NewSession(orderID, r.deps, r.opts)
		s.Close()
		return s
	default:
	}

	e, ok := r.sessions[orderID]
	if !ok {
		e = &entry{session: NewSession(orderID, r.deps, r.opts)}
		r.sessions[orderID] = e
	}
	e.lastUsed = r.now()
	return e.session
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) cleanupLoop() {
	defer close(r.stopped)

	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.reap()
		}
	}
}

// reap closes sessions idle for longer than the TTL.
func (r *Registry) reap() {
	r.mu.Lock()
	cutoff := r.now().Add(-r.idleTTL)
	var idle []*Session
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e.session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
}

// Close stops the janitor and closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		return
	default:
	}
	close(r.done)
	all := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	<-r.stopped
	for _, e := range all {
		e.session.Close()
	}
}
