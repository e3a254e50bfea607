// Package testutil holds fakes shared by tests across packages.
package testutil

import (
	"sync"
	"time"
)

// AutoClock is a fake clock whose After fires immediately and advances
// virtual time by the requested duration. Polling loops therefore run to
// completion without sleeping while still observing elapsed time.
type AutoClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewAutoClock starts a clock at a fixed instant.
func NewAutoClock() *AutoClock {
	return &AutoClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *AutoClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *AutoClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// Waits returns every duration passed to After, in call order.
func (c *AutoClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// CountWaits returns how many times After was called with d.
func (c *AutoClock) CountWaits(d time.Duration) int {
	n := 0
	for _, w := range c.Waits() {
		if w == d {
			n++
		}
	}
	return n
}
