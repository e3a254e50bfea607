package styles_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/cli/styles"
	"github.com/bnema/promptcast/internal/domain/build"
	"github.com/bnema/promptcast/internal/domain/entity"
)

func sampleConfig() *entity.Config {
	return &entity.Config{
		Menus: []entity.Menu{{
			ID:             "research",
			Name:           "Research",
			AutoSubmit:     true,
			RunAllEnabled:  true,
			RunAllShortcut: "ctrl+alt+r",
			Actions: []entity.Action{
				{ID: "sum", Title: "Summarize", Shortcut: "Ctrl+Shift+S", Enabled: true, Order: 0},
				{ID: "exp", Title: "Explain", Enabled: true, Order: 1},
				{ID: "old", Title: "Translate", Enabled: false, Order: 2},
			},
		}},
	}
}

func TestMenuRenderer_RenderMenus(t *testing.T) {
	r := styles.NewMenuRenderer(styles.NewTheme())

	out := r.RenderMenus(sampleConfig())
	require.Contains(t, out, "Research")
	assert.Contains(t, out, "[research]")
	assert.Contains(t, out, "Summarize")
	assert.Contains(t, out, "Ctrl+Shift+S")
	assert.Contains(t, out, "Translate (disabled)")
	assert.Contains(t, out, entity.RunAllTitle)
	assert.Contains(t, out, "Ctrl+Alt+R")
	assert.Contains(t, out, "auto-submit")
}

func TestMenuRenderer_RenderMenusEmpty(t *testing.T) {
	r := styles.NewMenuRenderer(styles.NewTheme())
	assert.Contains(t, r.RenderMenus(&entity.Config{}), "No menus configured")
}

func TestMenuRenderer_RenderShortcuts(t *testing.T) {
	r := styles.NewMenuRenderer(styles.NewTheme())
	bindings := []entity.ShortcutBinding{{Shortcut: "Ctrl+Shift+S", Ref: entity.ActionRef{MenuID: "m", ActionID: "sum"}}}
	rejected := []entity.RejectedShortcut{{Raw: "Hyper+Q", Ref: entity.ActionRef{MenuID: "m", ActionID: "bad"}, Err: errors.New("unknown modifier")}}
	conflicts := []entity.ShortcutConflict{{
		Shortcut: "Ctrl+Shift+S",
		Refs:     []entity.ActionRef{{MenuID: "m", ActionID: "sum"}, {MenuID: "n", ActionID: "dup"}},
	}}

	out := r.RenderShortcuts(bindings, rejected, conflicts)
	assert.Contains(t, out, "m/sum")
	assert.Contains(t, out, "Invalid shortcuts")
	assert.Contains(t, out, "unknown modifier")
	assert.Contains(t, out, "Conflicts")
	assert.Contains(t, out, "m/sum, n/dup")
}

func TestHistoryRenderer_Rows(t *testing.T) {
	r := styles.NewHistoryRenderer(styles.NewTheme())
	started := time.Now().Add(-90 * time.Second)
	attempts := []*entity.AttemptRecord{{
		MenuID:     "m",
		ActionID:   "sum",
		TabID:      "ABCDEF0123456789",
		Retry:      true,
		State:      entity.StateSubmitted,
		Outcome:    entity.OutcomeSucceeded,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}}

	rows := r.Rows(attempts)
	require.Len(t, rows, 1)
	assert.Equal(t, "1m ago", rows[0][0])
	assert.Equal(t, "m/sum (retry)", rows[0][1])
	assert.Equal(t, "ABCDEF01", rows[0][2])
	assert.Equal(t, "succeeded", rows[0][3])
	assert.Equal(t, "1.5s", rows[0][5])

	out := r.RenderAttempts(attempts)
	assert.Contains(t, out, "When")
	assert.Contains(t, out, "m/sum (retry)")
}

func TestHistoryRenderer_Empty(t *testing.T) {
	r := styles.NewHistoryRenderer(styles.NewTheme())
	assert.Contains(t, r.RenderAttempts(nil), "No attempts recorded")
}

func TestConfigRenderer(t *testing.T) {
	r := styles.NewConfigRenderer(styles.NewTheme())

	assert.Contains(t, r.RenderConfigInfo("/tmp/promptcast/config.toml"), "config.toml")
	assert.Contains(t, r.RenderValid("/tmp/promptcast/config.toml", 2, 7), "is valid")
	imported := r.RenderImported("/tmp/export.json", "/tmp/config.toml", true)
	assert.Contains(t, imported, "export.json")
	assert.Contains(t, imported, "Default Menu")
	assert.Contains(t, r.RenderError(errors.New("boom")), "boom")
}

func TestSendRenderer(t *testing.T) {
	r := styles.NewSendRenderer(styles.NewTheme())

	assert.Contains(t, r.RenderQueued(entity.ActionRef{MenuID: "m", ActionID: "sum"}, 12), "m/sum")
	health := r.RenderHealth("127.0.0.1:7777", "ok", "v1.0.0", "2m0s")
	assert.Contains(t, health, "127.0.0.1:7777")
	assert.Contains(t, health, "up 2m0s")
}

func TestAboutRenderer(t *testing.T) {
	r := styles.NewAboutRenderer(styles.NewTheme())
	out := r.Render(build.Info{Version: "v1.0.0", Commit: "abc", BuildDate: "today", GoVersion: "go1.25"})
	assert.Contains(t, out, "v1.0.0")
	assert.Contains(t, out, build.RepoURL())
}
