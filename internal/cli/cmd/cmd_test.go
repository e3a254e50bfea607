package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/domain/entity"
)

type staticClipboard struct {
	text string
	err  error
}

func (c staticClipboard) ReadText(context.Context) (string, error) { return c.text, c.err }

func TestBuildSendRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		menu          string
		action        string
		text          string
		fromClipboard bool
		clip          staticClipboard
		wantRef       entity.ActionRef
		wantText      string
		wantErr       bool
	}{
		{
			name:     "text flag",
			menu:     "default",
			action:   "sum",
			text:     "hello",
			wantRef:  entity.ActionRef{MenuID: "default", ActionID: "sum"},
			wantText: "hello",
		},
		{
			name:     "bare action",
			action:   " sum ",
			text:     "hello",
			wantRef:  entity.ActionRef{ActionID: "sum"},
			wantText: "hello",
		},
		{
			name:          "clipboard",
			menu:          "m",
			action:        entity.RunAllActionID,
			fromClipboard: true,
			clip:          staticClipboard{text: "from clipboard"},
			wantRef:       entity.RunAllRef("m"),
			wantText:      "from clipboard",
		},
		{name: "missing action", text: "x", wantErr: true},
		{name: "run all needs menu", action: entity.RunAllActionID, text: "x", wantErr: true},
		{name: "blank text", action: "sum", text: "   ", wantErr: true},
		{name: "clipboard error", action: "sum", fromClipboard: true, clip: staticClipboard{err: errors.New("no display")}, wantErr: true},
		{name: "empty clipboard", action: "sum", fromClipboard: true, clip: staticClipboard{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, text, err := buildSendRequest(ctx, tt.menu, tt.action, tt.text, tt.fromClipboard, tt.clip)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestControlAddr(t *testing.T) {
	t.Cleanup(func() { sendAddr = "" })

	sendAddr = ""
	addr, err := controlAddr("127.0.0.1:7341")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7341", addr)

	_, err = controlAddr("")
	assert.Error(t, err)

	sendAddr = "127.0.0.1:9999"
	addr, err = controlAddr("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", addr)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "send", "status", "menus", "shortcuts", "history", "config", "version"} {
		assert.True(t, names[want], want)
	}

	sub := make(map[string]bool)
	for _, c := range configCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"path", "schema", "validate", "import", "export"} {
		assert.True(t, sub[want], want)
	}
}
