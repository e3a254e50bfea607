package chrome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/promptcast/internal/application/port"
	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/logging"
)

// SourceMenu tags requests issued from the selection menu.
const SourceMenu = "menu"

const defaultPublishDelay = 50 * time.Millisecond

// menuItem is the page-side form of a menu entry.
type menuItem struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId,omitempty"`
	Title    string `json:"title"`
}

// menuPublisher pushes the entry list to open pages.
type menuPublisher interface {
	PublishMenu(ctx context.Context, items []menuItem)
}

// SelectionMenu implements port.ContextMenu as an in-page overlay shown on
// right click over a selection. Changes are coalesced and then published
// to every page.
type SelectionMenu struct {
	sink    port.RequestSink
	baseCtx context.Context
	delay   time.Duration

	mu        sync.Mutex
	entries   []entity.MenuEntry
	byID      map[string]int
	publisher menuPublisher
	pending   *time.Timer
}

var _ port.ContextMenu = (*SelectionMenu)(nil)

// NewSelectionMenu creates an empty menu whose clicks go to sink.
func NewSelectionMenu(ctx context.Context, sink port.RequestSink) *SelectionMenu {
	return &SelectionMenu{
		sink:    sink,
		baseCtx: logging.WithComponent(ctx, "selection-menu"),
		delay:   defaultPublishDelay,
		byID:    make(map[string]int),
	}
}

// SetPublisher sets where entry changes are pushed.
func (s *SelectionMenu) SetPublisher(p menuPublisher) {
	s.mu.Lock()
	s.publisher = p
	s.mu.Unlock()
}

// RemoveAll clears every entry.
func (s *SelectionMenu) RemoveAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.byID = make(map[string]int)
	s.scheduleLocked()
	return nil
}

// Create adds an entry. IDs are unique and a child's parent must exist.
func (s *SelectionMenu) Create(_ context.Context, entry entity.MenuEntry) error {
	if entry.ID == "" {
		return errors.New("menu entry id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byID[entry.ID]; dup {
		return fmt.Errorf("duplicate menu entry id %q", entry.ID)
	}
	if entry.ParentID != "" {
		if _, ok := s.byID[entry.ParentID]; !ok {
			return fmt.Errorf("menu entry %q: unknown parent %q", entry.ID, entry.ParentID)
		}
	}
	s.byID[entry.ID] = len(s.entries)
	s.entries = append(s.entries, entry)
	s.scheduleLocked()
	return nil
}

// Entries returns a copy of the current entries.
func (s *SelectionMenu) Entries() []entity.MenuEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.MenuEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *SelectionMenu) items() []menuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

func (s *SelectionMenu) itemsLocked() []menuItem {
	items := make([]menuItem, 0, len(s.entries))
	for _, e := range s.entries {
		items = append(items, menuItem{ID: e.ID, ParentID: e.ParentID, Title: e.Title})
	}
	return items
}

func (s *SelectionMenu) scheduleLocked() {
	if s.publisher == nil || s.pending != nil {
		return
	}
	s.pending = time.AfterFunc(s.delay, s.publish)
}

func (s *SelectionMenu) publish() {
	s.mu.Lock()
	s.pending = nil
	publisher := s.publisher
	items := s.itemsLocked()
	s.mu.Unlock()

	if publisher != nil {
		publisher.PublishMenu(s.baseCtx, items)
	}
}

// HandleClick turns a menu click from a page into an execution request.
func (s *SelectionMenu) HandleClick(ctx context.Context, _ entity.TabID, payload json.RawMessage) error {
	var click struct {
		EntryID       string `json:"entryId"`
		SelectionText string `json:"selectionText"`
	}
	if err := json.Unmarshal(payload, &click); err != nil {
		return fmt.Errorf("decode menu click: %w", err)
	}

	s.mu.Lock()
	idx, ok := s.byID[click.EntryID]
	var entry entity.MenuEntry
	if ok {
		entry = s.entries[idx]
	}
	s.mu.Unlock()

	log := logging.FromContext(ctx)
	if !ok || entry.Ref == nil {
		log.Debug().Str("entry_id", click.EntryID).Msg("menu click on unknown or parent entry")
		return nil
	}

	req := entity.ExecutionRequest{Ref: *entry.Ref, SelectionText: click.SelectionText, Source: SourceMenu}
	if err := s.sink.Enqueue(ctx, req); err != nil {
		return fmt.Errorf("menu %s: %w", entry.Ref, err)
	}
	return nil
}
