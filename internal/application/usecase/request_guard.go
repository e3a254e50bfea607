package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
)

const defaultDebounceWindow = 10 * time.Second

// RequestGuard suppresses re-delivery of the same injection request to the
// same page within a debounce window. Distinct request ids always pass.
type RequestGuard struct {
	mu              sync.Mutex
	clock           port.Clock
	seen            map[string]time.Time
	debounceWindow  time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
}

// NewRequestGuard creates a guard with the given window.
func NewRequestGuard(clock port.Clock, window time.Duration) *RequestGuard {
	if window <= 0 {
		window = defaultDebounceWindow
	}
	return &RequestGuard{
		clock:           clock,
		seen:            make(map[string]time.Time),
		debounceWindow:  window,
		cleanupInterval: window * 3,
		lastCleanup:     clock.Now(),
	}
}

// IsDuplicate records (scope, requestID) and reports whether it was
// already recorded within the window. An empty request id is never a
// duplicate.
func (g *RequestGuard) IsDuplicate(scope, requestID string) (bool, string) {
	if requestID == "" {
		return false, ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if now.Sub(g.lastCleanup) > g.cleanupInterval {
		g.cleanup(now)
	}

	key := scope + "\x00" + requestID
	if at, ok := g.seen[key]; ok {
		if age := now.Sub(at); age < g.debounceWindow {
			return true, fmt.Sprintf("duplicate request id %s (seen %v ago)", requestID, age)
		}
	}
	g.seen[key] = now
	return false, ""
}

// Forget removes a request id so it may be delivered again.
func (g *RequestGuard) Forget(scope, requestID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, scope+"\x00"+requestID)
}

func (g *RequestGuard) cleanup(now time.Time) {
	for key, at := range g.seen {
		if now.Sub(at) >= g.debounceWindow {
			delete(g.seen, key)
		}
	}
	g.lastCleanup = now
}
