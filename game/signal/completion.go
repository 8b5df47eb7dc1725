// Package signal schedules the one-shot notification that follows a solved
// maze. The celebration delay keeps the final position on screen before the
// host moves on.
package signal

import (
	"sync"
	"time"
)

// DefaultDelay is the celebration delay between the winning move and the
// notification.
const DefaultDelay = 2500 * time.Millisecond

// Completion is a cancellable, one-shot delayed callback
type Completion struct {
	delay  time.Duration
	notify func()

	mu        sync.Mutex
	timer     *time.Timer
	armed     bool
	fired     bool
	cancelled bool
	done      chan struct{}
}

// New creates an unarmed completion signal. A non-positive delay fires on
// the next timer tick.
func New(delay time.Duration, notify func()) *Completion {
	if delay < 0 {
		delay = 0
	}
	return &Completion{
		delay:  delay,
		notify: notify,
		done:   make(chan struct{}),
	}
}

// Delay returns the configured celebration delay
func (c *Completion) Delay() time.Duration {
	return c.delay
}

// Arm schedules the callback. It returns false if the signal was already
// armed or has been cancelled.
func (c *Completion) Arm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.armed || c.cancelled {
		return false
	}
	c.armed = true
	c.timer = time.AfterFunc(c.delay, c.fire)
	return true
}

func (c *Completion) fire() {
	c.mu.Lock()
	if c.cancelled || c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	close(c.done)
	c.mu.Unlock()

	if c.notify != nil {
		c.notify()
	}
}

// Cancel prevents a pending callback from running. It returns true if a
// scheduled callback was stopped before firing.
func (c *Completion) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled || c.fired {
		return false
	}
	c.cancelled = true
	close(c.done)

	if c.timer != nil {
		c.timer.Stop()
		return true
	}
	return false
}

// Fired reports whether the callback has run
func (c *Completion) Fired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

// Pending reports whether the callback is scheduled but has not run
func (c *Completion) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed && !c.fired && !c.cancelled
}

// Cancelled reports whether Cancel stopped the signal
func (c *Completion) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// Done is closed once the callback has fired or the signal was cancelled
func (c *Completion) Done() <-chan struct{} {
	return c.done
}
