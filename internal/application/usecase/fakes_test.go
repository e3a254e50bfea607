package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/dom"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), zerolog.Nop())
}

// fakeTabs is an in-memory browser. Tabs are numbered tab-1, tab-2, ...
// in the order Create is called.
type fakeTabs struct {
	mu sync.Mutex

	title      string
	next       int
	tabs       map[entity.TabID]*port.Tab
	order      []entity.TabID
	created    []createCall
	activated  []entity.TabID
	closed     map[entity.TabID]bool
	failCreate map[int]error
	pending    map[entity.TabID][]port.TabEvent
	// beforeCreate runs unlocked with the creation number.
	beforeCreate func(n int)

	subscribed   int
	unsubscribed int
}

type createCall struct {
	URL    string
	Active bool
}

func newFakeTabs() *fakeTabs {
	return &fakeTabs{
		title:      "ChatGPT - Research",
		tabs:       make(map[entity.TabID]*port.Tab),
		closed:     make(map[entity.TabID]bool),
		failCreate: make(map[int]error),
		pending:    make(map[entity.TabID][]port.TabEvent),
	}
}

// open registers an already-open tab.
func (f *fakeTabs) open(id entity.TabID, url, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tabs[id] = &port.Tab{ID: id, URL: url, Title: title}
	f.order = append(f.order, id)
}

func (f *fakeTabs) close(id entity.TabID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed[id] = true
}

func (f *fakeTabs) Create(_ context.Context, url string, active bool) (port.Tab, error) {
	f.mu.Lock()
	f.next++
	n := f.next
	hook := f.beforeCreate
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failCreate[n]; err != nil {
		return port.Tab{}, err
	}
	id := entity.TabID(fmt.Sprintf("tab-%d", n))
	tab := &port.Tab{ID: id, URL: url, Title: f.title}
	f.tabs[id] = tab
	f.order = append(f.order, id)
	f.created = append(f.created, createCall{URL: url, Active: active})
	return *tab, nil
}

func (f *fakeTabs) FindByURL(_ context.Context, prefix string) (port.Tab, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		if f.closed[id] {
			continue
		}
		if tab := f.tabs[id]; strings.HasPrefix(tab.URL, prefix) {
			return *tab, true, nil
		}
	}
	return port.Tab{}, false, nil
}

func (f *fakeTabs) Activate(_ context.Context, id entity.TabID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed[id] {
		return port.ErrTabClosed
	}
	f.activated = append(f.activated, id)
	return nil
}

func (f *fakeTabs) Get(_ context.Context, id entity.TabID) (port.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, ok := f.tabs[id]
	if !ok || f.closed[id] {
		return port.Tab{}, port.ErrTabClosed
	}
	return *tab, nil
}

func (f *fakeTabs) Subscribe(id entity.TabID) (<-chan port.TabEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed++
	events := f.pending[id]
	ch := make(chan port.TabEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			f.unsubscribed++
			f.mu.Unlock()
		})
	}
}

func (f *fakeTabs) createdCalls() []createCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]createCall(nil), f.created...)
}

// pageState is the fake composer of one tab.
type pageState struct {
	// renderAfter snapshots are taken before the editor shows up.
	renderAfter int
	noSubmit    bool
	disabled    bool
	// deaf pages accept clicks and Enter without sending.
	deaf   bool
	closed bool
	// navigating snapshots fail the way an evaluate does mid-navigation.
	navigating int

	snapshots int
	value     string
	inserts   []string
	replaces  int
	clicks    int
	enters    int
	alerts    []string
}

// fakePage renders a minimal chat composer per tab.
type fakePage struct {
	mu     sync.Mutex
	pages  map[entity.TabID]*pageState
	preset map[entity.TabID]func(*pageState)
}

func newFakePage() *fakePage {
	return &fakePage{
		pages:  make(map[entity.TabID]*pageState),
		preset: make(map[entity.TabID]func(*pageState)),
	}
}

// configure sets up a tab before or after it exists.
func (p *fakePage) configure(id entity.TabID, fn func(*pageState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preset[id] = fn
	if s, ok := p.pages[id]; ok {
		fn(s)
	}
}

func (p *fakePage) state(id entity.TabID) *pageState {
	s, ok := p.pages[id]
	if !ok {
		s = &pageState{}
		if fn := p.preset[id]; fn != nil {
			fn(s)
		}
		p.pages[id] = s
	}
	return s
}

// inspect returns a copy of a tab's state.
func (p *fakePage) inspect(id entity.TabID) pageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := *p.state(id)
	s.inserts = append([]string(nil), s.inserts...)
	s.alerts = append([]string(nil), s.alerts...)
	return s
}

func (p *fakePage) Snapshot(_ context.Context, id entity.TabID) (*dom.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state(id)
	if s.closed {
		return nil, port.ErrTabClosed
	}
	if s.navigating > 0 {
		s.navigating--
		return nil, errors.New("Inspected target navigated or closed")
	}
	s.snapshots++
	if s.snapshots <= s.renderAfter {
		return dom.ParseString(`<main><p>Loading…</p></main>`)
	}

	var b strings.Builder
	b.WriteString(`<main><form>`)
	b.WriteString(`<div contenteditable="true" data-testid="prompt-textarea">`)
	b.WriteString(html.EscapeString(s.value))
	b.WriteString(`</div>`)
	if !s.noSubmit {
		b.WriteString(`<button data-testid="send-button"`)
		if s.disabled {
			b.WriteString(` disabled`)
		}
		b.WriteString(`>Send</button>`)
	}
	b.WriteString(`</form></main>`)
	return dom.ParseString(b.String())
}

func (p *fakePage) InsertText(_ context.Context, id entity.TabID, _ dom.NodeRef, _ dom.EditorKind, text string, replace bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state(id)
	if s.closed {
		return "", port.ErrTabClosed
	}
	if replace {
		s.value = text
		s.replaces++
	} else {
		s.value += text
	}
	s.inserts = append(s.inserts, text)
	return "insertText", nil
}

func (p *fakePage) Click(_ context.Context, id entity.TabID, _ dom.NodeRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state(id)
	s.clicks++
	if !s.deaf {
		s.value = ""
	}
	return nil
}

func (p *fakePage) PressEnter(_ context.Context, id entity.TabID, _ dom.NodeRef) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state(id)
	s.enters++
	if !s.deaf {
		s.value = ""
	}
	return true, nil
}

func (p *fakePage) RequestSubmit(context.Context, entity.TabID, dom.NodeRef) (bool, error) {
	return false, errors.New("no form")
}

func (p *fakePage) Alert(_ context.Context, id entity.TabID, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state(id)
	s.alerts = append(s.alerts, message)
	return nil
}

// staticSource serves a fixed configuration.
type staticSource struct {
	mu    sync.Mutex
	cfg   *entity.Config
	loads int
}

func (s *staticSource) Load(context.Context) (*entity.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.cfg.Clone(), nil
}

func researchConfig() *entity.Config {
	return &entity.Config{
		Version: entity.CurrentConfigVersion,
		Menus: []entity.Menu{
			{
				ID:            "research",
				Name:          "Research",
				CustomGPTURL:  "https://chatgpt.com/g/g-research",
				RunAllEnabled: true,
				Actions: []entity.Action{
					{ID: "summarize", Title: "Summarize", Prompt: "Summarize:", Enabled: true, Order: 0},
					{ID: "explain", Title: "Explain", Prompt: "Explain:", Enabled: true, Order: 1},
					{ID: "critique", Title: "Critique", Prompt: "Critique:", Enabled: true, Order: 2},
					{ID: "archived", Title: "Archived", Prompt: "Old:", Enabled: false, Order: 3},
				},
			},
		},
	}
}
