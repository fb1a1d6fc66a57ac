package lockboxtest

import (
	"sync/atomic"
	"time"

	"github.com/lockbox-labs/lockbox"
)

// Clock is a manually driven lockbox.Clock. It is safe for concurrent use.
type Clock struct {
	now int64
}

var _ lockbox.Clock = (*Clock)(nil)

// NewClock returns a clock stopped at given time.
func NewClock(now lockbox.UnixTime) *Clock {
	return &Clock{now: int64(now)}
}

// Now implements lockbox.Clock.
func (c *Clock) Now() lockbox.UnixTime {
	return lockbox.UnixTime(atomic.LoadInt64(&c.now))
}

// Set moves the clock to given time.
func (c *Clock) Set(t lockbox.UnixTime) {
	atomic.StoreInt64(&c.now, int64(t))
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) lockbox.UnixTime {
	return lockbox.UnixTime(atomic.AddInt64(&c.now, int64(d/time.Second)))
}
