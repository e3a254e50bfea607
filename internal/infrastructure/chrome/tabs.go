package chrome

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

const subscriberBuffer = 8

// PageObserver is told when page targets come and go.
type PageObserver interface {
	PageOpened(id entity.TabID)
	PageClosed(id entity.TabID)
}

// TabRegistry tracks the browser's page targets from Target domain events
// and implements port.Tabs.
type TabRegistry struct {
	browser *Browser
	baseCtx context.Context

	mu       sync.RWMutex
	tabs     map[entity.TabID]port.Tab
	order    []entity.TabID
	subs     map[entity.TabID]map[int]chan port.TabEvent
	nextSub  int
	observer PageObserver
}

// NewTabRegistry creates an empty registry. Call Start to begin tracking.
func NewTabRegistry(ctx context.Context, browser *Browser) *TabRegistry {
	return &TabRegistry{
		browser: browser,
		baseCtx: logging.WithComponent(ctx, "tabs"),
		tabs:    make(map[entity.TabID]port.Tab),
		subs:    make(map[entity.TabID]map[int]chan port.TabEvent),
	}
}

// SetObserver registers the page lifecycle observer.
func (r *TabRegistry) SetObserver(o PageObserver) {
	r.mu.Lock()
	r.observer = o
	r.mu.Unlock()
}

// Start enables target discovery and registers the pages already open.
func (r *TabRegistry) Start(ctx context.Context) error {
	chromedp.ListenBrowser(r.browser.Context(), func(ev any) {
		switch e := ev.(type) {
		case *target.EventTargetCreated:
			r.upsert(e.TargetInfo)
		case *target.EventTargetInfoChanged:
			r.upsert(e.TargetInfo)
		case *target.EventTargetDestroyed:
			r.remove(entity.TabID(e.TargetID))
		case *target.EventTargetCrashed:
			r.remove(entity.TabID(e.TargetID))
		}
	})

	bctx := r.browser.exec(ctx)
	if err := target.SetDiscoverTargets(true).Do(bctx); err != nil {
		return fmt.Errorf("enable target discovery: %w", err)
	}
	infos, err := target.GetTargets().Do(bctx)
	if err != nil {
		return fmt.Errorf("list targets: %w", err)
	}
	for _, info := range infos {
		r.upsert(info)
	}
	return nil
}

func (r *TabRegistry) upsert(info *target.Info) {
	if info == nil || info.Type != "page" {
		return
	}
	id := entity.TabID(info.TargetID)
	tab := port.Tab{ID: id, URL: info.URL, Title: info.Title}

	r.mu.Lock()
	_, known := r.tabs[id]
	r.tabs[id] = tab
	if !known {
		r.order = append(r.order, id)
	}
	observer := r.observer
	r.broadcastLocked(id, port.TabEvent{Tab: tab})
	r.mu.Unlock()

	if !known {
		logging.FromContext(r.baseCtx).Debug().Str("tab_id", string(id)).Str("url", tab.URL).Msg("page target discovered")
		if observer != nil {
			go observer.PageOpened(id)
		}
	}
}

func (r *TabRegistry) remove(id entity.TabID) {
	r.mu.Lock()
	tab, known := r.tabs[id]
	if !known {
		r.mu.Unlock()
		return
	}
	delete(r.tabs, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	observer := r.observer
	r.broadcastLocked(id, port.TabEvent{Tab: tab, Closed: true})
	r.mu.Unlock()

	logging.FromContext(r.baseCtx).Debug().Str("tab_id", string(id)).Msg("page target closed")
	if observer != nil {
		go observer.PageClosed(id)
	}
}

// broadcastLocked delivers ev without blocking; a full subscriber misses
// the event and relies on polling.
func (r *TabRegistry) broadcastLocked(id entity.TabID, ev port.TabEvent) {
	for _, ch := range r.subs[id] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Create opens url in a new tab. The call returns once the target exists,
// before the page has loaded.
func (r *TabRegistry) Create(ctx context.Context, url string, active bool) (port.Tab, error) {
	bctx := r.browser.exec(ctx)
	targetID, err := target.CreateTarget(url).WithBackground(!active).Do(bctx)
	if err != nil {
		return port.Tab{}, fmt.Errorf("create tab: %w", err)
	}
	id := entity.TabID(targetID)

	r.mu.Lock()
	tab, known := r.tabs[id]
	if !known {
		tab = port.Tab{ID: id, URL: url}
		r.tabs[id] = tab
		r.order = append(r.order, id)
	}
	observer := r.observer
	r.mu.Unlock()

	if !known && observer != nil {
		go observer.PageOpened(id)
	}
	if active {
		if err := target.ActivateTarget(targetID).Do(bctx); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("could not focus new tab")
		}
	}
	return tab, nil
}

// FindByURL returns the earliest tracked tab whose URL starts with prefix.
func (r *TabRegistry) FindByURL(_ context.Context, prefix string) (port.Tab, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if tab := r.tabs[id]; urlUnder(tab.URL, prefix) {
			return tab, true, nil
		}
	}
	return port.Tab{}, false, nil
}

// urlUnder reports whether u is base itself or lies below it. The match
// must end on a path, query or fragment boundary, so g-abc does not match
// g-abcd.
func urlUnder(u, base string) bool {
	if base == "" || !strings.HasPrefix(u, base) {
		return false
	}
	if len(u) == len(base) || strings.ContainsRune("/?#", rune(base[len(base)-1])) {
		return true
	}
	return strings.ContainsRune("/?#", rune(u[len(base)]))
}

// Activate focuses a tab.
func (r *TabRegistry) Activate(ctx context.Context, id entity.TabID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if err := target.ActivateTarget(target.ID(id)).Do(r.browser.exec(ctx)); err != nil {
		return classify(err, nil)
	}
	return nil
}

// Get returns the last known state of a tab.
func (r *TabRegistry) Get(_ context.Context, id entity.TabID) (port.Tab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tab, ok := r.tabs[id]
	if !ok {
		return port.Tab{}, port.ErrTabClosed
	}
	return tab, nil
}

// List returns every tracked tab in discovery order.
func (r *TabRegistry) List() []port.Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]port.Tab, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tabs[id])
	}
	return out
}

// Subscribe delivers updates for one tab until cancel is called.
func (r *TabRegistry) Subscribe(id entity.TabID) (<-chan port.TabEvent, func()) {
	ch := make(chan port.TabEvent, subscriberBuffer)

	r.mu.Lock()
	key := r.nextSub
	r.nextSub++
	if r.subs[id] == nil {
		r.subs[id] = make(map[int]chan port.TabEvent)
	}
	r.subs[id][key] = ch
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs[id], key)
			if len(r.subs[id]) == 0 {
				delete(r.subs, id)
			}
			r.mu.Unlock()
		})
	}
}
