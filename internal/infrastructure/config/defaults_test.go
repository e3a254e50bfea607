package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/domain/entity"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	isolateXDG(t)
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, entity.CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Clipboard.CopyOnFailure)
}

func TestDefaultMenus_StarterMenuBindsShortcuts(t *testing.T) {
	cfg := &Config{Menus: DefaultMenus()}
	bindings, rejected := entity.BuildShortcutMap(cfg.Entity())
	assert.Empty(t, rejected)

	var shortcuts []string
	for _, b := range bindings {
		shortcuts = append(shortcuts, b.Shortcut)
	}
	assert.ElementsMatch(t, []string{"Ctrl+Shift+S", "Ctrl+Shift+E", "Ctrl+Alt+R"}, shortcuts)
}

func TestDefaultMenus_ReturnsFreshSlices(t *testing.T) {
	a := DefaultMenus()
	a[0].Actions[0].Title = "changed"
	*a[0].Actions[1].Enabled = false

	b := DefaultMenus()
	assert.Equal(t, "Summarize", b[0].Actions[0].Title)
	assert.True(t, b[0].Actions[1].IsEnabled())
}
