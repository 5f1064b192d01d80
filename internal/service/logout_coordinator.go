package service

import (
	"sync"
	"time"
)

// LogoutCoordinator is the process-wide logout transition flag. It is set
// synchronously at the start of logout, before any network call, and reset
// only after a fixed grace window once logout has completed, so dependent
// views never see signed_in=false without logging_out=true during the
// transition.
type LogoutCoordinator struct {
	grace time.Duration

	mu     sync.Mutex
	active bool
	timer  *time.Timer
	subs   []chan bool
}

// DefaultSettleWindow keeps the logout screen visible long enough to avoid
// flicker from fast network round-trips.
const DefaultSettleWindow = 2 * time.Second

// NewLogoutCoordinator creates a coordinator with the given grace window.
// Non-positive values fall back to the default.
func NewLogoutCoordinator(grace time.Duration) *LogoutCoordinator {
	if grace <= 0 {
		grace = DefaultSettleWindow
	}
	return &LogoutCoordinator{grace: grace}
}

// Begin raises the flag synchronously. Any pending reset is cancelled, so
// overlapping logouts extend the transition instead of cutting it short.
func (c *LogoutCoordinator) Begin() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	changed := !c.active
	c.active = true
	subs := c.subscribers()
	c.mu.Unlock()

	if changed {
		broadcast(subs, true)
	}
}

// Settle schedules the flag reset after the grace window. Call it once the
// logout work (network + session clears) has finished.
func (c *LogoutCoordinator) Settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || c.timer != nil {
		return
	}
	c.timer = time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		c.active = false
		c.timer = nil
		subs := c.subscribers()
		c.mu.Unlock()
		broadcast(subs, false)
	})
}

// IsLoggingOut reports the current flag. Every consumer must check it
// before any other loading or error condition.
func (c *LogoutCoordinator) IsLoggingOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Subscribe returns a channel that receives the flag on every transition.
// The channel is buffered; a slow subscriber misses intermediate values but
// always observes the latest one.
func (c *LogoutCoordinator) Subscribe() <-chan bool {
	ch := make(chan bool, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// subscribers must be called with the lock held.
func (c *LogoutCoordinator) subscribers() []chan bool {
	out := make([]chan bool, len(c.subs))
	copy(out, c.subs)
	return out
}

func broadcast(subs []chan bool, v bool) {
	for _, ch := range subs {
		// Drop the stale value if the subscriber has not drained it.
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
