package entity

import "sort"

// RejectedShortcut is a configured shortcut that could not be bound.
type RejectedShortcut struct {
	Raw string
	Ref ActionRef
	Err error
}

// BuildShortcutMap lists the bindings every page should listen for:
// enabled actions with a valid shortcut, and the Run All shortcut of
// menus where Run All applies. Shortcuts that fail to parse are returned
// separately and never bound.
func BuildShortcutMap(cfg *Config) ([]ShortcutBinding, []RejectedShortcut) {
	if cfg == nil {
		return nil, nil
	}

	var (
		bindings []ShortcutBinding
		rejected []RejectedShortcut
	)
	add := func(raw string, ref ActionRef) {
		if raw == "" {
			return
		}
		sc, err := ParseShortcut(raw)
		if err != nil {
			rejected = append(rejected, RejectedShortcut{Raw: raw, Ref: ref, Err: err})
			return
		}
		bindings = append(bindings, ShortcutBinding{Shortcut: sc.String(), Ref: ref})
	}

	for _, menu := range cfg.SortedMenus() {
		for _, action := range menu.EnabledActions() {
			add(action.Shortcut, ActionRef{MenuID: menu.ID, ActionID: action.ID})
		}
		if menu.ShowsRunAll() {
			add(menu.RunAllShortcut, RunAllRef(menu.ID))
		}
	}
	return bindings, rejected
}

// ShortcutConflict is a canonical shortcut claimed by more than one action.
type ShortcutConflict struct {
	Shortcut string
	Refs     []ActionRef
}

// FindShortcutConflicts groups every configured shortcut, enabled or not,
// by canonical form and reports the groups with more than one owner.
func FindShortcutConflicts(cfg *Config) []ShortcutConflict {
	if cfg == nil {
		return nil
	}

	owners := make(map[string][]ActionRef)
	var order []string
	claim := func(raw string, ref ActionRef) {
		canonical := CanonicalShortcut(raw)
		if canonical == "" {
			return
		}
		if _, seen := owners[canonical]; !seen {
			order = append(order, canonical)
		}
		owners[canonical] = append(owners[canonical], ref)
	}

	for _, menu := range cfg.SortedMenus() {
		for _, action := range menu.SortedActions() {
			claim(action.Shortcut, ActionRef{MenuID: menu.ID, ActionID: action.ID})
		}
		if menu.RunAllEnabled {
			claim(menu.RunAllShortcut, RunAllRef(menu.ID))
		}
	}

	var conflicts []ShortcutConflict
	for _, sc := range order {
		if refs := owners[sc]; len(refs) > 1 {
			conflicts = append(conflicts, ShortcutConflict{Shortcut: sc, Refs: refs})
		}
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Shortcut < conflicts[j].Shortcut
	})
	return conflicts
}
