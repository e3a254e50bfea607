package port

import (
	"context"
	"errors"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// ErrTabClosed is returned when the tab no longer exists.
var ErrTabClosed = errors.New("tab closed")

// Tab is the browser's view of one page target.
type Tab struct {
	ID    entity.TabID
	URL   string
	Title string
}

// TabEvent reports a change to a tab.
type TabEvent struct {
	Tab    Tab
	Closed bool
}

// Tabs creates and observes browser tabs.
type Tabs interface {
	// Create opens url in a new tab, focused when active is true.
	Create(ctx context.Context, url string, active bool) (Tab, error)
	// FindByURL returns an open tab whose URL starts with prefix.
	FindByURL(ctx context.Context, prefix string) (Tab, bool, error)
	// Activate focuses a tab.
	Activate(ctx context.Context, id entity.TabID) error
	// Get returns the current state of a tab, or ErrTabClosed.
	Get(ctx context.Context, id entity.TabID) (Tab, error)
	// Subscribe delivers change events for one tab until cancel is called.
	Subscribe(id entity.TabID) (events <-chan TabEvent, cancel func())
}
