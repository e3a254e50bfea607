package entity

// LegacyConfig is the pre-menu layout: a flat action list with the GPT
// target and submit behaviour in the global settings.
type LegacyConfig struct {
	Actions        []Action
	GlobalSettings LegacyGlobalSettings
}

// LegacyGlobalSettings holds the settings that moved onto menus.
type LegacyGlobalSettings struct {
	CustomGPTURL   string
	AutoSubmit     bool
	GPTTitleMatch  string
	ClearContext   bool
	RunAllEnabled  bool
	RunAllShortcut string
}

// MigrateLegacy converts a legacy configuration into a single menu with id
// "default". Action ids, order and shortcuts are kept as-is.
func MigrateLegacy(legacy LegacyConfig) *Config {
	actions := append([]Action(nil), legacy.Actions...)
	for i := range actions {
		if actions[i].Order == 0 {
			actions[i].Order = i
		}
	}

	return &Config{
		Version: CurrentConfigVersion,
		Menus: []Menu{{
			ID:             DefaultMenuID,
			Name:           "Default",
			CustomGPTURL:   legacy.GlobalSettings.CustomGPTURL,
			AutoSubmit:     legacy.GlobalSettings.AutoSubmit,
			RunAllEnabled:  legacy.GlobalSettings.RunAllEnabled,
			RunAllShortcut: legacy.GlobalSettings.RunAllShortcut,
			Actions:        actions,
		}},
		GlobalSettings: GlobalSettings{
			GPTTitleMatch: legacy.GlobalSettings.GPTTitleMatch,
			ClearContext:  legacy.GlobalSettings.ClearContext,
		},
	}
}
