package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Milestone is a named point on a Timeline.
type Milestone struct {
	Name    string
	Elapsed time.Duration // since the timeline started
	Delta   time.Duration // since the previous milestone
}

// Timeline records named milestones relative to a start instant and emits
// one debug line per milestone. It is safe for concurrent use and a nil
// Timeline is a no-op.
type Timeline struct {
	mu         sync.Mutex
	label      string
	t0         time.Time
	now        func() time.Time
	logger     *zerolog.Logger
	milestones []Milestone
}

// NewTimeline starts a timeline at now().
func NewTimeline(label string, logger *zerolog.Logger, now func() time.Time) *Timeline {
	if now == nil {
		now = time.Now
	}
	return &Timeline{
		label:  label,
		t0:     now(),
		now:    now,
		logger: logger,
	}
}

// Mark records a milestone and returns it.
func (tl *Timeline) Mark(name string) Milestone {
	if tl == nil {
		return Milestone{Name: name}
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	elapsed := tl.now().Sub(tl.t0)
	m := Milestone{Name: name, Elapsed: elapsed}
	if n := len(tl.milestones); n > 0 {
		m.Delta = elapsed - tl.milestones[n-1].Elapsed
	}
	tl.milestones = append(tl.milestones, m)

	if tl.logger != nil {
		tl.logger.Debug().
			Str("timeline", tl.label).
			Str("milestone", m.Name).
			Int64("t_ms", m.Elapsed.Milliseconds()).
			Int64("delta_ms", m.Delta.Milliseconds()).
			Msgf("%s: %s (T+%dms)", tl.label, m.Name, m.Elapsed.Milliseconds())
	}
	return m
}

// Milestones returns a copy of the recorded milestones.
func (tl *Timeline) Milestones() []Milestone {
	if tl == nil {
		return nil
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]Milestone(nil), tl.milestones...)
}

// Has reports whether a milestone with the given name was recorded.
func (tl *Timeline) Has(name string) bool {
	for _, m := range tl.Milestones() {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Summary renders "name:ms,name:ms" for a single log field.
func (tl *Timeline) Summary() string {
	var parts []string
	for _, m := range tl.Milestones() {
		parts = append(parts, fmt.Sprintf("%s:%d", m.Name, m.Elapsed.Milliseconds()))
	}
	return strings.Join(parts, ",")
}
