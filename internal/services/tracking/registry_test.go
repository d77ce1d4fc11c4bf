package tracking

import (
	"context"
	"sync"
	"testing"
	"time"

	"courier-tracking-service/internal/adapters/repositories"
	"courier-tracking-service/internal/adapters/routing"
	"courier-tracking-service/internal/mapview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ReusesSessions(t *testing.T) {
	store := repositories.NewMemoryStore()
	r := NewRegistry(Deps{Orders: store, Routes: routing.NewMockRouteProvider()}, mapview.DefaultOptions(), time.Hour)
	defer r.Close()

	a := r.Session("o-1")
	assert.Same(t, a, r.Session("o-1"))
	assert.NotSame(t, a, r.Session("o-2"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ReapsIdleSessions(t *testing.T) {
	store := repositories.NewMemoryStore()
	r := NewRegistry(Deps{Orders: store, Routes: routing.NewMockRouteProvider()}, mapview.DefaultOptions(), time.Hour)
	defer r.Close()

	var mu sync.Mutex
	now := time.Now()
	r.mu.Lock()
	r.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	r.mu.Unlock()

	idle := r.Session("o-1")
	mu.Lock()
	now = now.Add(90 * time.Minute)
	mu.Unlock()
	r.Session("o-2")

	r.reap()

	assert.Equal(t, 1, r.Len())
	_, err := idle.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRegistry_CloseClosesSessions(t *testing.T) {
	store := repositories.NewMemoryStore()
	r := NewRegistry(Deps{Orders: store, Routes: routing.NewMockRouteProvider()}, mapview.DefaultOptions(), time.Hour)

	s := r.Session("o-1")
	r.Close()
	r.Close()

	assert.Equal(t, 0, r.Len())
	_, err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestRegistry_SessionAfterCloseIsClosed(t *testing.T) {
	store := repositories.NewMemoryStore()
	r := NewRegistry(Deps{Orders: store, Routes: routing.NewMockRouteProvider()}, mapview.DefaultOptions(), time.Hour)
	r.Close()

	s := r.Session("o-1")
	require.NotNil(t, s)
	assert.Equal(t, 0, r.Len())
	_, err := s.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
