// Package poller waits for a delivered location to appear for a key by
// querying the location-check collaborator at a fixed interval.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-tracking-service/internal/ports"

	"go.uber.org/zap"
)

// ErrAttemptsExhausted is returned when MaxAttempts checks found nothing.
var ErrAttemptsExhausted = errors.New("poller: attempts exhausted")

const (
	DefaultInterval    = 3 * time.Second
	DefaultMaxAttempts = 60
)

type Result struct {
	Check    ports.LocationCheck
	Attempts int
}

type Poller struct {
	Checker     ports.LocationChecker
	Interval    time.Duration
	MaxAttempts int
	Log         *zap.Logger
}

func New(checker ports.LocationChecker, interval time.Duration, maxAttempts int, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{Checker: checker, Interval: interval, MaxAttempts: maxAttempts, Log: log}
}

// Run checks once immediately and then once per tick until a location is
// found, MaxAttempts checks were made, or ctx is done. A failing check
// counts as an attempt. The checker is never called more than MaxAttempts
// times.
func (p *Poller) Run(ctx context.Context, key string) (Result, error) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var res Result
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Attempts++
		check, err := p.Checker.Check(ctx, key)
		switch {
		case err != nil:
			p.Log.Warn("location check failed",
				zap.String("key", key),
				zap.Int("attempt", res.Attempts),
				zap.Error(err),
			)
		case check.HasLocation:
			res.Check = check
			return res, nil
		}

		if res.Attempts >= p.MaxAttempts {
			return res, fmt.Errorf("%w after %d checks", ErrAttemptsExhausted, res.Attempts)
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-ticker.C:
		}
	}
}
