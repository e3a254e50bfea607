package config

import "github.com/bnema/promptcast/internal/domain/entity"

// Entity returns the menu configuration in domain form.
func (c *Config) Entity() *entity.Config {
	out := &entity.Config{
		Version: c.Version,
		GlobalSettings: entity.GlobalSettings{
			GPTTitleMatch: c.GlobalSettings.GPTTitleMatch,
			ClearContext:  c.GlobalSettings.ClearContext,
		},
	}
	if out.Version == 0 {
		out.Version = entity.CurrentConfigVersion
	}
	for _, m := range c.Menus {
		out.Menus = append(out.Menus, entity.Menu{
			ID:             m.ID,
			Name:           m.Name,
			CustomGPTURL:   m.CustomGPTURL,
			AutoSubmit:     m.AutoSubmit,
			RunAllEnabled:  m.RunAllEnabled,
			RunAllShortcut: m.RunAllShortcut,
			Order:          m.Order,
			Actions:        toEntityActions(m.Actions),
		})
	}
	return out
}

func toEntityActions(actions []ActionConfig) []entity.Action {
	if len(actions) == 0 {
		return nil
	}
	out := make([]entity.Action, 0, len(actions))
	for _, a := range actions {
		out = append(out, entity.Action{
			ID:       a.ID,
			Title:    a.Title,
			Prompt:   a.Prompt,
			Shortcut: a.Shortcut,
			Enabled:  a.IsEnabled(),
			Order:    a.Order,
		})
	}
	return out
}

func menusFromEntity(cfg *entity.Config) []MenuConfig {
	if cfg == nil {
		return nil
	}
	out := make([]MenuConfig, 0, len(cfg.Menus))
	for _, m := range cfg.Menus {
		actions := make([]ActionConfig, 0, len(m.Actions))
		for _, a := range m.Actions {
			actions = append(actions, ActionConfig{
				ID:       a.ID,
				Title:    a.Title,
				Prompt:   a.Prompt,
				Shortcut: a.Shortcut,
				Enabled:  enabled(a.Enabled),
				Order:    a.Order,
			})
		}
		out = append(out, MenuConfig{
			ID:             m.ID,
			Name:           m.Name,
			CustomGPTURL:   m.CustomGPTURL,
			AutoSubmit:     m.AutoSubmit,
			RunAllEnabled:  m.RunAllEnabled,
			RunAllShortcut: m.RunAllShortcut,
			Order:          m.Order,
			Actions:        actions,
		})
	}
	return out
}

// SetMenus replaces the menu layout with cfg.
func (c *Config) SetMenus(cfg *entity.Config) {
	c.Version = cfg.Version
	c.GlobalSettings = GlobalSettingsConfig{
		GPTTitleMatch: cfg.GlobalSettings.GPTTitleMatch,
		ClearContext:  cfg.GlobalSettings.ClearContext,
	}
	c.Actions = nil
	c.Menus = menusFromEntity(cfg)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Actions = cloneActions(c.Actions)
	out.Menus = make([]MenuConfig, len(c.Menus))
	for i, m := range c.Menus {
		m.Actions = cloneActions(m.Actions)
		out.Menus[i] = m
	}
	return &out
}

func cloneActions(actions []ActionConfig) []ActionConfig {
	if actions == nil {
		return nil
	}
	out := make([]ActionConfig, len(actions))
	for i, a := range actions {
		if a.Enabled != nil {
			a.Enabled = enabled(*a.Enabled)
		}
		out[i] = a
	}
	return out
}
