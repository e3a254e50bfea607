package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/input"
	"github.com/bnema/promptcast/internal/logging"
)

const defaultCallTimeout = 5 * time.Second

// SessionDeps wires page sessions to the application.
type SessionDeps struct {
	Router    *MessageRouter
	Shortcuts port.ShortcutProvider
	Sink      port.RequestSink
	Menu      *SelectionMenu
	// Now drives matcher timelines; nil means time.Now.
	Now func() time.Time
	// CallTimeout bounds each script evaluation.
	CallTimeout time.Duration
}

// session is the daemon's attachment to one page target.
type session struct {
	id     entity.TabID
	ctx    context.Context
	cancel context.CancelFunc

	attached chan struct{}
	err      error

	mu      sync.Mutex
	handler port.KeyHandler
	matcher *input.Matcher
}

func (s *session) keyHandler() port.KeyHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

func (s *session) currentMatcher() *input.Matcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matcher
}

// SessionManager attaches to every page, installs the bridge and hosts
// one shortcut Matcher per loaded document.
type SessionManager struct {
	browser *Browser
	deps    SessionDeps
	baseCtx context.Context

	mu       sync.Mutex
	sessions map[entity.TabID]*session
	closed   bool
}

// NewSessionManager creates a manager and registers its bridge handlers.
func NewSessionManager(ctx context.Context, browser *Browser, deps SessionDeps) (*SessionManager, error) {
	if deps.CallTimeout <= 0 {
		deps.CallTimeout = defaultCallTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := &SessionManager{
		browser:  browser,
		deps:     deps,
		baseCtx:  logging.WithComponent(ctx, "sessions"),
		sessions: make(map[entity.TabID]*session),
	}

	if err := deps.Router.RegisterHandler(MessageReady, MessageHandlerFunc(m.handleReady)); err != nil {
		return nil, err
	}
	if err := deps.Router.RegisterHandler(MessageKeyDown, MessageHandlerFunc(m.handleKeyDown)); err != nil {
		return nil, err
	}
	if deps.Menu != nil {
		deps.Menu.SetPublisher(m)
		if err := deps.Router.RegisterHandler(MessageMenuClick, MessageHandlerFunc(deps.Menu.HandleClick)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// PageOpened attaches to a new page target.
func (m *SessionManager) PageOpened(id entity.TabID) {
	if _, err := m.attach(id); err != nil {
		logging.FromContext(m.baseCtx).Debug().Err(err).Str("tab_id", string(id)).Msg("could not attach to page")
	}
}

// PageClosed drops the session of a closed page.
func (m *SessionManager) PageClosed(id entity.TabID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.cancel()
	}
}

// attach returns the session of a tab, attaching on first use.
func (m *SessionManager) attach(id entity.TabID) (*session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, port.ErrTabClosed
	}
	s, ok := m.sessions[id]
	if !ok {
		s = &session{id: id, attached: make(chan struct{})}
		s.ctx, s.cancel = chromedp.NewContext(m.browser.Context(), chromedp.WithTargetID(target.ID(id)))
		m.sessions[id] = s
	}
	m.mu.Unlock()

	if ok {
		<-s.attached
		return s, s.err
	}

	s.err = m.connect(s)
	close(s.attached)
	if s.err != nil {
		m.mu.Lock()
		if m.sessions[id] == s {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		s.cancel()
		return s, s.err
	}
	return s, nil
}

func (m *SessionManager) connect(s *session) error {
	if err := chromedp.Run(s.ctx); err != nil {
		return classify(fmt.Errorf("attach: %w", err), s.ctx.Err())
	}
	if err := installBridge(s.ctx, s.id, m.deps.Router); err != nil {
		return classify(err, s.ctx.Err())
	}
	logging.FromContext(m.baseCtx).Debug().Str("tab_id", string(s.id)).Msg("page bridge installed")
	return nil
}

// evaluate runs script in a tab and stores the raw JSON result in out.
func (m *SessionManager) evaluate(ctx context.Context, id entity.TabID, script string, out *[]byte) error {
	s, err := m.attach(id)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(s.ctx, m.deps.CallTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(callCtx, chromedp.Evaluate(script, out)); err != nil {
		return classify(err, s.ctx.Err())
	}
	return nil
}

// evaluateJSON runs script and decodes its result into v.
func (m *SessionManager) evaluateJSON(ctx context.Context, id entity.TabID, script string, v any) error {
	var raw []byte
	if err := m.evaluate(ctx, id, script, &raw); err != nil {
		return err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return ErrBridgeMissing
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode page result: %w", err)
	}
	return nil
}

func (m *SessionManager) session(id entity.TabID) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) handleReady(ctx context.Context, id entity.TabID, payload json.RawMessage) error {
	var info struct {
		URL      string  `json:"url"`
		LoadedAt float64 `json:"loadedAt"`
	}
	if err := json.Unmarshal(payload, &info); err != nil {
		return fmt.Errorf("decode ready: %w", err)
	}

	s, err := m.attach(id)
	if err != nil {
		return err
	}

	ctx = logging.WithComponent(ctx, "matcher")
	matcher := input.NewMatcher(ctx, string(id), m.deps.Shortcuts, m.deps.Sink, sessionKeys{m: m, s: s}, m.deps.Now)
	s.mu.Lock()
	s.matcher = matcher
	s.handler = nil
	s.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("url", info.URL).Float64("loaded_ms", info.LoadedAt).Msg("page bridge ready")

	if m.deps.Menu != nil {
		if err := m.pushMenu(ctx, id, m.deps.Menu.items()); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("could not publish selection menu")
		}
	}
	return matcher.Start(ctx)
}

func (m *SessionManager) handleKeyDown(ctx context.Context, id entity.TabID, payload json.RawMessage) error {
	var ev entity.KeyEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode keydown: %w", err)
	}
	s, ok := m.session(id)
	if !ok {
		return nil
	}
	handler := s.keyHandler()
	if handler == nil {
		logging.FromContext(ctx).Warn().Str("code", ev.Code).Msg("key press before listener was armed")
		return nil
	}
	handler(ctx, ev)
	return nil
}

// RefreshShortcuts makes every live matcher refetch its shortcut list.
func (m *SessionManager) RefreshShortcuts(ctx context.Context) {
	for _, s := range m.snapshot() {
		matcher := s.currentMatcher()
		if matcher == nil {
			continue
		}
		if err := matcher.Refresh(ctx); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("tab_id", string(s.id)).Msg("shortcut refresh failed")
		}
	}
}

// PublishMenu sends menu entries to every attached page.
func (m *SessionManager) PublishMenu(ctx context.Context, items []menuItem) {
	for _, s := range m.snapshot() {
		if err := m.pushMenu(ctx, s.id, items); err != nil {
			logging.FromContext(ctx).Trace().Err(err).Str("tab_id", string(s.id)).Msg("menu publish skipped")
		}
	}
}

func (m *SessionManager) pushMenu(ctx context.Context, id entity.TabID, items []menuItem) error {
	var raw []byte
	return m.evaluate(ctx, id, setMenuScript(items), &raw)
}

func (m *SessionManager) snapshot() []*session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		select {
		case <-s.attached:
			if s.err == nil {
				out = append(out, s)
			}
		default:
		}
	}
	return out
}

// Close detaches from every page.
func (m *SessionManager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[entity.TabID]*session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.cancel()
	}
}

// sessionKeys is the port.KeySource of one session.
type sessionKeys struct {
	m *SessionManager
	s *session
}

func (k sessionKeys) Arm(ctx context.Context, shortcuts []string, handler port.KeyHandler) (port.ListenerInfo, error) {
	k.s.mu.Lock()
	k.s.handler = handler
	k.s.mu.Unlock()

	var info struct {
		LoadedAt   float64 `json:"loadedAt"`
		AttachedAt float64 `json:"attachedAt"`
		First      bool    `json:"first"`
	}
	if err := k.m.evaluateJSON(ctx, k.s.id, armScript(shortcuts), &info); err != nil {
		return port.ListenerInfo{}, err
	}
	return port.ListenerInfo{LoadedAt: info.LoadedAt, AttachedAt: info.AttachedAt, First: info.First}, nil
}
