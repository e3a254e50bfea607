package config

import "github.com/bnema/promptcast/internal/domain/entity"

// LegacyResult describes what migrateLegacy did.
type LegacyResult int

const (
	// LegacyNone means the file used the menu layout only.
	LegacyNone LegacyResult = iota
	// LegacyMigrated means a top-level action list became the default menu.
	LegacyMigrated
	// LegacyIgnored means both layouts were present and the menus won.
	LegacyIgnored
)

// migrateLegacy folds the pre-menu layout into menus:
//
//	actions = [...]
//	[global_settings]
//	custom_gpt_url = "..."
//
// becomes one menu with id "default" carrying the actions and the URL,
// submit and Run All settings. When the file already has menus the legacy
// keys are dropped. Either way cfg only holds the menu layout afterwards.
func migrateLegacy(cfg *Config) LegacyResult {
	result := LegacyNone
	if len(cfg.Actions) > 0 {
		if len(cfg.Menus) == 0 {
			g := cfg.GlobalSettings
			migrated := entity.MigrateLegacy(entity.LegacyConfig{
				Actions: toEntityActions(cfg.Actions),
				GlobalSettings: entity.LegacyGlobalSettings{
					CustomGPTURL:   g.CustomGPTURL,
					AutoSubmit:     g.AutoSubmit,
					GPTTitleMatch:  g.GPTTitleMatch,
					ClearContext:   g.ClearContext,
					RunAllEnabled:  g.RunAllEnabled,
					RunAllShortcut: g.RunAllShortcut,
				},
			})
			cfg.Menus = menusFromEntity(migrated)
			result = LegacyMigrated
		} else {
			result = LegacyIgnored
		}
	}

	cfg.Actions = nil
	cfg.GlobalSettings.CustomGPTURL = ""
	cfg.GlobalSettings.AutoSubmit = false
	cfg.GlobalSettings.RunAllEnabled = false
	cfg.GlobalSettings.RunAllShortcut = ""
	if cfg.Version < entity.CurrentConfigVersion {
		cfg.Version = entity.CurrentConfigVersion
	}
	return result
}
