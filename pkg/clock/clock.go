// Package clock is the time source of the polling engine. Production code
// runs on the wall clock; tests drive schedules with a fake one.
package clock

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	Clock = clockwork.Clock
	Timer = clockwork.Timer
)

// Real returns a Clock backed by the time package.
func Real() Clock {
	return clockwork.NewRealClock()
}

const (
	// settleWait bounds how long HasTimers waits for background goroutines
	// to arm the timers it expects.
	settleWait = 250 * time.Millisecond
	// quietWait is how long no extra timer may appear for a count to be exact.
	quietWait = 20 * time.Millisecond
)

// FakeClock is a clockwork fake clock with the waits the polling tests
// need. AfterFunc callbacks run on their own goroutine once Advance
// reaches their deadline.
type FakeClock struct {
	*clockwork.FakeClock
}

// Fake returns a FakeClock starting at initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{FakeClock: clockwork.NewFakeClockAt(initial)}
}

// WaitForTimers blocks until at least n timers are pending. Use it to let
// a goroutine arm its next timer before calling Advance.
func (c *FakeClock) WaitForTimers(n int) {
	_ = c.BlockUntilContext(context.Background(), n)
}

// HasTimers reports whether exactly n timers are pending: n show up
// within settleWait and no further one within quietWait. HasTimers(0)
// asserts nothing is armed.
func (c *FakeClock) HasTimers(n int) bool {
	if n > 0 && !c.reaches(n, settleWait) {
		return false
	}
	return !c.reaches(n+1, quietWait)
}

func (c *FakeClock) reaches(n int, within time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), within)
	defer cancel()
	return c.BlockUntilContext(ctx, n) == nil
}
