package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConfigOrdered_TOMLRoundTrip(t *testing.T) {
	isolateXDG(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Menus[0].Actions[2].Enabled = enabled(false)
	require.NoError(t, WriteConfigOrdered(cfg, configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "[[menus]]")
	assert.Contains(t, text, "[[menus.actions]]")
	assert.Less(t, strings.Index(text, "[global_settings]"), strings.Index(text, "[[menus]]"))

	var decoded Config
	require.NoError(t, toml.Unmarshal(content, &decoded))
	assert.Equal(t, cfg.Menus, decoded.Menus)
	assert.Equal(t, cfg.Timing, decoded.Timing)
	assert.False(t, decoded.Menus[0].Actions[2].IsEnabled())
}

func TestWriteConfigOrdered_JSONByExtension(t *testing.T) {
	isolateXDG(t)
	configPath := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(content, &raw))
	assert.Contains(t, raw, "global_settings")
	assert.Contains(t, raw, "menus")
}

func TestWriteConfigOrdered_LeavesNoTempFiles(t *testing.T) {
	isolateXDG(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	require.NoError(t, WriteConfigOrdered(DefaultConfig(), configPath))
	require.NoError(t, WriteConfigOrdered(DefaultConfig(), configPath))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestWriteConfigOrdered_NilConfig(t *testing.T) {
	assert.Error(t, WriteConfigOrdered(nil, filepath.Join(t.TempDir(), "config.toml")))
}
