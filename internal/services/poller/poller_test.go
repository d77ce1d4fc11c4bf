package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courier-tracking-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedChecker returns HasLocation once it was called succeedOn times.
type scriptedChecker struct {
	mu        sync.Mutex
	calls     int
	succeedOn int
	failEvery bool
}

func (c *scriptedChecker) Check(ctx context.Context, key string) (ports.LocationCheck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if c.succeedOn > 0 && c.calls >= c.succeedOn {
		return ports.LocationCheck{
			HasLocation: true,
			Location:    &ports.CheckLocation{Lat: 24.7, Lng: 46.6},
		}, nil
	}
	if c.failEvery {
		return ports.LocationCheck{}, errors.New("unreachable")
	}
	return ports.LocationCheck{HasLocation: false}, nil
}

func (c *scriptedChecker) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRun_ImmediateHit(t *testing.T) {
	c := &scriptedChecker{succeedOn: 1}
	p := New(c, time.Hour, 60, zap.NewNop())

	res, err := p.Run(context.Background(), "0500000001")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.True(t, res.Check.HasLocation)
	assert.Equal(t, 1, c.Calls())
}

func TestRun_SucceedsOnLastAttempt(t *testing.T) {
	c := &scriptedChecker{succeedOn: 60}
	p := New(c, time.Millisecond, 60, zap.NewNop())

	res, err := p.Run(context.Background(), "0500000001")
	require.NoError(t, err)
	assert.Equal(t, 60, res.Attempts)
	assert.Equal(t, 60, c.Calls())
}

func TestRun_NeverExceedsMaxAttempts(t *testing.T) {
	c := &scriptedChecker{}
	p := New(c, time.Millisecond, 60, zap.NewNop())

	res, err := p.Run(context.Background(), "0500000001")
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, 60, res.Attempts)
	assert.Equal(t, 60, c.Calls())
}

func TestRun_ErrorsCountAsAttempts(t *testing.T) {
	c := &scriptedChecker{failEvery: true}
	p := New(c, time.Millisecond, 5, zap.NewNop())

	res, err := p.Run(context.Background(), "0500000001")
	assert.ErrorIs(t, err, ErrAttemptsExhausted)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, 5, c.Calls())
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := &scriptedChecker{}
	p := New(c, time.Hour, 60, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx, "0500000001")
		done <- err
	}()

	require.Eventually(t, func() bool { return c.Calls() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
	assert.Equal(t, 1, c.Calls())
}

func TestNew_Defaults(t *testing.T) {
	p := New(&scriptedChecker{}, 0, 0, nil)
	assert.Equal(t, DefaultInterval, p.Interval)
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
}
