package fake

import (
	"context"
	"sync"
	"time"
)

// Clock is a settable time source for tests
type Clock struct {
	now time.Time
	sync.Mutex
}

// NewClock creates a clock stopped at the given instant, normalized to UTC
func NewClock(now time.Time) *Clock {
	return &Clock{now: now.UTC()}
}

// Now implements types.Clock
func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()
	return c.now
}

// Advance moves the clock forward (or back, with a negative d)
func (c *Clock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()
	c.now = c.now.Add(d)
}

// TxRunner is a pass-through transaction boundary running the delegate once
type TxRunner struct{}

// Run implements types.TxRunner
func (TxRunner) Run(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// FlakyTxRunner replays every delegate a fixed number of times before letting
// its last run commit, the way a conflict-retrying boundary would. It shakes
// out delegates that are not idempotent.
type FlakyTxRunner struct {
	Replays int
}

// Run implements types.TxRunner
func (r FlakyTxRunner) Run(ctx context.Context, fn func(context.Context) error) error {
	for i := 0; i < r.Replays; i++ {
		if e := fn(ctx); e != nil {
			return e
		}
	}
	return fn(ctx)
}
