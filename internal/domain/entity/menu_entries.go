package entity

// RunAllTitle is the label of the Run All child entry.
const RunAllTitle = "Run All Actions"

// BuildMenuEntries lays out the selection menu: one parent per menu,
// one child per enabled action, and a Run All child where it applies.
// Parents come before their children.
func BuildMenuEntries(cfg *Config) []MenuEntry {
	if cfg == nil {
		return nil
	}

	var entries []MenuEntry
	for _, menu := range cfg.SortedMenus() {
		parentID := "menu:" + menu.ID
		entries = append(entries, MenuEntry{ID: parentID, Title: menu.Name})

		for _, action := range menu.EnabledActions() {
			ref := ActionRef{MenuID: menu.ID, ActionID: action.ID}
			entries = append(entries, MenuEntry{
				ID:       parentID + ":action:" + action.ID,
				ParentID: parentID,
				Title:    action.Title,
				Ref:      &ref,
			})
		}

		if menu.ShowsRunAll() {
			ref := RunAllRef(menu.ID)
			entries = append(entries, MenuEntry{
				ID:       parentID + ":" + RunAllActionID,
				ParentID: parentID,
				Title:    RunAllTitle,
				Ref:      &ref,
			})
		}
	}
	return entries
}
