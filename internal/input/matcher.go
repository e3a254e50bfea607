// Package input turns key presses observed in a page into execution
// requests.
package input

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

// SourceShortcut tags requests raised by a key press.
const SourceShortcut = "shortcut"

// Timeline milestones.
const (
	MilestoneFetched  = "shortcuts_fetched"
	MilestoneAttached = "listener_attached"
	MilestoneReady    = "shortcuts_ready"
)

type binding struct {
	shortcut entity.Shortcut
	ref      entity.ActionRef
}

// Matcher owns the shortcut list of one page document. The page listener
// is armed only after the list has been fetched, and a replacement swaps
// the list before the page is re-armed.
type Matcher struct {
	label    string
	provider port.ShortcutProvider
	sink     port.RequestSink
	keys     port.KeySource
	timeline *logging.Timeline

	bindings atomic.Pointer[[]binding]
	ready    atomic.Bool
	raced    atomic.Int64
}

// NewMatcher creates a matcher for one page. now drives the startup
// timeline; nil means time.Now.
func NewMatcher(ctx context.Context, label string, provider port.ShortcutProvider, sink port.RequestSink, keys port.KeySource, now func() time.Time) *Matcher {
	m := &Matcher{
		label:    label,
		provider: provider,
		sink:     sink,
		keys:     keys,
		timeline: logging.NewTimeline("shortcuts "+label, logging.FromContext(ctx), now),
	}
	m.bindings.Store(&[]binding{})
	return m
}

// Start fetches the shortcut list and then arms the page.
func (m *Matcher) Start(ctx context.Context) error {
	log := logging.FromContext(ctx)

	list, err := m.provider.ShortcutMap(ctx)
	if err != nil {
		return fmt.Errorf("fetch shortcuts: %w", err)
	}
	m.timeline.Mark(MilestoneFetched)

	canonical := m.store(ctx, list)
	info, err := m.keys.Arm(ctx, canonical, m.HandleKey)
	if err != nil {
		return fmt.Errorf("arm key listener: %w", err)
	}
	m.timeline.Mark(MilestoneAttached)
	m.ready.Store(true)
	m.timeline.Mark(MilestoneReady)

	log.Debug().
		Str("page", m.label).
		Int("shortcuts", len(canonical)).
		Float64("script_loaded_ms", info.LoadedAt).
		Float64("listener_attached_ms", info.AttachedAt).
		Bool("first_arm", info.First).
		Str("timeline", m.timeline.Summary()).
		Msg("shortcut listener ready")
	return nil
}

// Replace swaps in a new list and re-arms the page. Presses arriving after
// the swap are matched against the new list only.
func (m *Matcher) Replace(ctx context.Context, list []entity.ShortcutBinding) error {
	canonical := m.store(ctx, list)
	if _, err := m.keys.Arm(ctx, canonical, m.HandleKey); err != nil {
		return fmt.Errorf("re-arm key listener: %w", err)
	}
	logging.FromContext(ctx).Debug().Str("page", m.label).Int("shortcuts", len(canonical)).Msg("shortcuts replaced")
	return nil
}

// Refresh refetches the list and replaces it.
func (m *Matcher) Refresh(ctx context.Context) error {
	list, err := m.provider.ShortcutMap(ctx)
	if err != nil {
		return fmt.Errorf("fetch shortcuts: %w", err)
	}
	return m.Replace(ctx, list)
}

// Shortcuts returns the canonical shortcuts currently matched.
func (m *Matcher) Shortcuts() []string {
	list := *m.bindings.Load()
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.shortcut.String())
	}
	return out
}

// Ready reports whether the listener has been armed.
func (m *Matcher) Ready() bool {
	return m.ready.Load()
}

// RacedPresses counts presses delivered before Start completed.
func (m *Matcher) RacedPresses() int64 {
	return m.raced.Load()
}

// Timeline exposes the startup milestones.
func (m *Matcher) Timeline() *logging.Timeline {
	return m.timeline
}

// store compiles and publishes a list. Unparseable entries are dropped
// with a warning; the first binding of a shortcut wins.
func (m *Matcher) store(ctx context.Context, list []entity.ShortcutBinding) []string {
	log := logging.FromContext(ctx)

	compiled := make([]binding, 0, len(list))
	canonical := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, b := range list {
		sc, err := entity.ParseShortcut(b.Shortcut)
		if err != nil {
			log.Warn().Err(err).Str("shortcut", b.Shortcut).Str("action", b.Ref.String()).Msg("ignoring invalid shortcut")
			continue
		}
		compiled = append(compiled, binding{shortcut: sc, ref: b.Ref})
		if key := sc.String(); !seen[key] {
			seen[key] = true
			canonical = append(canonical, key)
		}
	}
	m.bindings.Store(&compiled)
	return canonical
}

// HandleKey matches one key event and forwards a request on a match.
// Failures are logged and never returned.
func (m *Matcher) HandleKey(ctx context.Context, ev entity.KeyEvent) {
	log := logging.FromContext(ctx)

	if !m.ready.Load() {
		m.raced.Add(1)
		log.Warn().
			Str("page", m.label).
			Str("code", ev.Code).
			Str("timeline", m.timeline.Summary()).
			Msg("key press raced shortcut initialization")
	}

	if ev.TargetIsEditable() {
		return
	}
	press, ok := entity.KeyPressFromEvent(ev)
	if !ok {
		return
	}

	ref, ok := m.match(press)
	if !ok {
		log.Trace().Str("chord", press.String()).Msg("no shortcut matched")
		return
	}

	selection := strings.TrimSpace(ev.Selection)
	if selection == "" {
		log.Debug().Str("chord", press.String()).Str("action", ref.String()).Msg("shortcut matched without a selection")
		return
	}

	err := m.sink.Enqueue(ctx, entity.ExecutionRequest{
		Ref:           ref,
		SelectionText: ev.Selection,
		Source:        SourceShortcut,
	})
	if err != nil {
		log.Warn().Err(err).Str("action", ref.String()).Msg("could not deliver execution request")
		return
	}
	log.Debug().Str("chord", press.String()).Str("action", ref.String()).Msg("shortcut dispatched")
}

func (m *Matcher) match(press entity.KeyPress) (entity.ActionRef, bool) {
	for _, b := range *m.bindings.Load() {
		if b.shortcut.Matches(press) {
			return b.ref, true
		}
	}
	return entity.ActionRef{}, false
}
