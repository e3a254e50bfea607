// Package usecase contains application business logic.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

var (
	// ErrReadinessTimeout is returned when the tab title never matched.
	ErrReadinessTimeout = errors.New("tab did not become ready")
	// ErrTabClosed is returned when the tab went away while waiting.
	ErrTabClosed = fmt.Errorf("waiting for readiness: %w", port.ErrTabClosed)
)

const (
	defaultReadyTimeout      = 20 * time.Second
	defaultReadyPollInterval = 250 * time.Millisecond
)

// WaitTabReadyInput describes what readiness means for one tab.
type WaitTabReadyInput struct {
	TabID      entity.TabID
	TitleMatch string
	Timeout    time.Duration
}

// WaitTabReadyUseCase blocks until a tab's title contains an expected
// substring. It listens for tab updates and also polls, because update
// events can be missed while a tab is still being attached.
type WaitTabReadyUseCase struct {
	tabs         port.Tabs
	clock        port.Clock
	pollInterval time.Duration
}

// NewWaitTabReadyUseCase creates a new WaitTabReadyUseCase.
func NewWaitTabReadyUseCase(tabs port.Tabs, clock port.Clock, pollInterval time.Duration) *WaitTabReadyUseCase {
	if pollInterval <= 0 {
		pollInterval = defaultReadyPollInterval
	}
	return &WaitTabReadyUseCase{tabs: tabs, clock: clock, pollInterval: pollInterval}
}

// Execute waits for readiness. It returns ErrTabClosed when the tab is
// closed and ErrReadinessTimeout when the timeout elapses first.
func (uc *WaitTabReadyUseCase) Execute(ctx context.Context, input WaitTabReadyInput) (port.Tab, error) {
	log := logging.FromContext(ctx)

	timeout := input.Timeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	match := strings.ToLower(input.TitleMatch)

	events, unsubscribe := uc.tabs.Subscribe(input.TabID)
	defer unsubscribe()

	ready := func(tab port.Tab) bool {
		return strings.Contains(strings.ToLower(tab.Title), match)
	}

	start := uc.clock.Now()
	var last port.Tab
	for {
		tab, err := uc.tabs.Get(ctx, input.TabID)
		switch {
		case errors.Is(err, port.ErrTabClosed):
			return port.Tab{}, ErrTabClosed
		case err != nil:
			log.Trace().Err(err).Str("tab_id", string(input.TabID)).Msg("readiness poll failed")
		case ready(tab):
			return tab, nil
		default:
			last = tab
		}

		if uc.clock.Now().Sub(start) >= timeout {
			log.Debug().
				Str("tab_id", string(input.TabID)).
				Str("title", last.Title).
				Str("want", input.TitleMatch).
				Msg("readiness timed out")
			return last, fmt.Errorf("%w after %s", ErrReadinessTimeout, timeout)
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Closed {
				return port.Tab{}, ErrTabClosed
			}
			if ready(ev.Tab) {
				return ev.Tab, nil
			}
		case <-uc.clock.After(uc.pollInterval):
		}
	}
}
