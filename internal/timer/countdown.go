// Package timer implements the countdown used to guard running tests with a
// timeout.
package timer

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"cstest/pkg/cstest/core"
)

var _ core.Timer = &Countdown{}

// Countdown is a core.Timer driven by a clock.Clock, so that unit tests can
// substitute a fake clock.
type Countdown struct {
	clk clock.Clock

	mu       sync.Mutex
	duration time.Duration
	callback func()

	// stop is non-nil while the countdown is armed. Each Start creates a new
	// channel, which doubles as the identity of that arming.
	stop chan struct{}
}

func NewCountdown(clk clock.Clock) *Countdown {
	return &Countdown{clk: clk}
}

// NewFactory returns a core.TimerFactory producing countdowns on clk.
func NewFactory(clk clock.Clock) core.TimerFactory {
	return func() core.Timer {
		return NewCountdown(clk)
	}
}

func (c *Countdown) OnExpiry(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.duration = d
	c.callback = f
}

func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
	}

	stop := make(chan struct{})
	c.stop = stop

	// Create the underlying timer before returning so that the countdown is
	// measured from the moment Start was called.
	tm := c.clk.NewTimer(c.duration)

	go func() {
		defer tm.Stop()

		select {
		case <-tm.C():
			c.expire(stop)
		case <-stop:
		}
	}()
}

func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Running returns whether the countdown is armed.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stop != nil
}

func (c *Countdown) expire(stop chan struct{}) {
	c.mu.Lock()
	if c.stop != stop {
		// Stopped or restarted while the timer was firing.
		c.mu.Unlock()
		return
	}

	c.stop = nil
	f := c.callback
	c.mu.Unlock()

	if f != nil {
		f()
	}
}
