package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CurrentConfigVersion is the schema version of the menu-based layout.
const CurrentConfigVersion = 2

// DefaultMenuID is the id given to the single menu produced when a
// pre-menu configuration is migrated.
const DefaultMenuID = "default"

// DefaultGPTURL is opened when a menu has no custom GPT URL.
const DefaultGPTURL = "https://chatgpt.com/"

// DefaultTitleMatch is the tab title substring that marks the chat UI as ready.
const DefaultTitleMatch = "ChatGPT"

var (
	ErrUnknownMenu   = errors.New("unknown menu")
	ErrUnknownAction = errors.New("unknown action")
)

// Config is the user's menu and action configuration.
type Config struct {
	Version        int            `json:"version"`
	Menus          []Menu         `json:"menus"`
	GlobalSettings GlobalSettings `json:"globalSettings"`
}

// GlobalSettings apply to every menu.
type GlobalSettings struct {
	// GPTTitleMatch is matched against tab titles to decide the chat UI is ready.
	GPTTitleMatch string `json:"gptTitleMatch"`
	// ClearContext opens a fresh conversation for each action instead of
	// reusing an already-open one.
	ClearContext bool `json:"clearContext"`
}

// Menu groups actions under one target GPT.
type Menu struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	CustomGPTURL   string   `json:"customGptUrl"`
	AutoSubmit     bool     `json:"autoSubmit"`
	RunAllEnabled  bool     `json:"runAllEnabled"`
	RunAllShortcut string   `json:"runAllShortcut,omitempty"`
	Order          int      `json:"order"`
	Actions        []Action `json:"actions"`
}

// Action is one prompt template.
type Action struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Shortcut string `json:"shortcut,omitempty"`
	Enabled  bool   `json:"enabled"`
	Order    int    `json:"order"`
}

// TitleMatch returns the configured readiness title or the default.
func (g GlobalSettings) TitleMatch() string {
	if strings.TrimSpace(g.GPTTitleMatch) == "" {
		return DefaultTitleMatch
	}
	return g.GPTTitleMatch
}

// TargetURL returns the URL actions of this menu open.
func (m *Menu) TargetURL() string {
	if u := strings.TrimSpace(m.CustomGPTURL); u != "" {
		return u
	}
	return DefaultGPTURL
}

// SortedActions returns the actions ordered by Order, then by position.
func (m *Menu) SortedActions() []Action {
	actions := append([]Action(nil), m.Actions...)
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Order < actions[j].Order
	})
	return actions
}

// EnabledActions returns the enabled actions in display order.
func (m *Menu) EnabledActions() []Action {
	var out []Action
	for _, a := range m.SortedActions() {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}

// ShowsRunAll reports whether the Run All entry applies: it needs the
// flag and at least two enabled actions.
func (m *Menu) ShowsRunAll() bool {
	return m.RunAllEnabled && len(m.EnabledActions()) >= 2
}

// Action looks up an action by id.
func (m *Menu) Action(id string) (*Action, bool) {
	for i := range m.Actions {
		if m.Actions[i].ID == id {
			return &m.Actions[i], true
		}
	}
	return nil, false
}

// SortedMenus returns the menus ordered by Order, then by position.
func (c *Config) SortedMenus() []Menu {
	menus := append([]Menu(nil), c.Menus...)
	sort.SliceStable(menus, func(i, j int) bool {
		return menus[i].Order < menus[j].Order
	})
	return menus
}

// Menu looks up a menu by id.
func (c *Config) Menu(id string) (*Menu, bool) {
	for i := range c.Menus {
		if c.Menus[i].ID == id {
			return &c.Menus[i], true
		}
	}
	return nil, false
}

// Resolve finds the menu and, unless ref targets Run All, the action a
// reference points to. A reference without a menu id is searched across
// all menus in display order; "runAll" without a menu id selects the
// first menu.
func (c *Config) Resolve(ref ActionRef) (*Menu, *Action, error) {
	if ref.MenuID == "" {
		return c.resolveBare(ref.ActionID)
	}

	menu, ok := c.Menu(ref.MenuID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMenu, ref.MenuID)
	}
	if ref.IsRunAll() {
		return menu, nil, nil
	}
	action, ok := menu.Action(ref.ActionID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q in menu %q", ErrUnknownAction, ref.ActionID, ref.MenuID)
	}
	return menu, action, nil
}

func (c *Config) resolveBare(actionID string) (*Menu, *Action, error) {
	sorted := c.SortedMenus()
	if actionID == RunAllActionID {
		if len(sorted) == 0 {
			return nil, nil, fmt.Errorf("%w: no menus configured", ErrUnknownMenu)
		}
		menu, _ := c.Menu(sorted[0].ID)
		return menu, nil, nil
	}
	for _, m := range sorted {
		menu, _ := c.Menu(m.ID)
		if action, ok := menu.Action(actionID); ok {
			return menu, action, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownAction, actionID)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Menus = make([]Menu, len(c.Menus))
	for i, m := range c.Menus {
		m.Actions = append([]Action(nil), m.Actions...)
		out.Menus[i] = m
	}
	return &out
}

// ComposePrompt joins the action's template and the selected text with a
// single space. The selection is kept verbatim.
func ComposePrompt(template, selection string) string {
	return template + " " + selection
}
