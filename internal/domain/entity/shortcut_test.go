package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/promptcast/internal/domain/entity"
)

func TestParseShortcut_Canonicalizes(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Ctrl+Shift+S", "Ctrl+Shift+S"},
		{"shift+ctrl+s", "Ctrl+Shift+S"},
		{" Ctrl + Alt + k ", "Ctrl+Alt+K"},
		{"Meta+Shift+Alt+Ctrl+x", "Ctrl+Alt+Shift+Meta+X"},
		{"⌃⇧S", "Ctrl+Shift+S"},
		{"⌘+⌥+P", "Alt+Meta+P"},
		{"cmd+KeyJ", "Meta+J"},
		{"Ctrl+Digit1", "Ctrl+1"},
		{"Alt+ArrowUp", "Alt+Up"},
		{"ctrl+enter", "Ctrl+Enter"},
		{"Ctrl+esc", "Ctrl+Escape"},
		{"Ctrl+f5", "Ctrl+F5"},
		{"Ctrl+,", "Ctrl+Comma"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sc, err := entity.ParseShortcut(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sc.String())
		})
	}
}

func TestParseShortcut_RejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "S", "Ctrl", "Ctrl+Shift", "Ctrl+A+B", "Ctrl++"} {
		t.Run(raw, func(t *testing.T) {
			_, err := entity.ParseShortcut(raw)
			require.ErrorIs(t, err, entity.ErrInvalidShortcut)
			assert.Empty(t, entity.CanonicalShortcut(raw))
		})
	}
}

func TestShortcut_MatchesRequiresEqualModifierSets(t *testing.T) {
	ctrlS, err := entity.ParseShortcut("Ctrl+S")
	require.NoError(t, err)

	pressed := func(ev entity.KeyEvent) entity.KeyPress {
		p, ok := entity.KeyPressFromEvent(ev)
		require.True(t, ok)
		return p
	}

	assert.True(t, ctrlS.Matches(pressed(entity.KeyEvent{Code: "KeyS", Ctrl: true})))
	assert.False(t, ctrlS.Matches(pressed(entity.KeyEvent{Code: "KeyS", Ctrl: true, Shift: true})))
	assert.False(t, ctrlS.Matches(pressed(entity.KeyEvent{Code: "KeyS", Alt: true})))
	assert.False(t, ctrlS.Matches(pressed(entity.KeyEvent{Code: "KeyD", Ctrl: true})))
}

func TestShortcut_MatchesPhysicalKeyNotCharacter(t *testing.T) {
	ctrlAltK, err := entity.ParseShortcut("Ctrl+Alt+K")
	require.NoError(t, err)

	// Alt+K on some layouts produces a dead key or a symbol; only the code matters.
	p, ok := entity.KeyPressFromEvent(entity.KeyEvent{Code: "KeyK", Key: "˚", Ctrl: true, Alt: true})
	require.True(t, ok)
	assert.True(t, ctrlAltK.Matches(p))
	assert.Equal(t, "Ctrl+Alt+K", p.String())
}

func TestKeyPressFromEvent_IgnoresBareModifiers(t *testing.T) {
	_, ok := entity.KeyPressFromEvent(entity.KeyEvent{Code: "ShiftLeft", Shift: true})
	assert.False(t, ok)
	_, ok = entity.KeyPressFromEvent(entity.KeyEvent{})
	assert.False(t, ok)
}

func TestKeyEvent_TargetIsEditable(t *testing.T) {
	assert.True(t, entity.KeyEvent{TargetTag: "input"}.TargetIsEditable())
	assert.True(t, entity.KeyEvent{TargetTag: "TEXTAREA"}.TargetIsEditable())
	assert.True(t, entity.KeyEvent{TargetTag: "DIV", TargetEditable: true}.TargetIsEditable())
	assert.False(t, entity.KeyEvent{TargetTag: "BODY"}.TargetIsEditable())
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "S", entity.NormalizeKey("KeyS"))
	assert.Equal(t, "7", entity.NormalizeKey("Digit7"))
	assert.Equal(t, "Left", entity.NormalizeKey("ArrowLeft"))
	assert.Equal(t, "PageDown", entity.NormalizeKey("pagedown"))
	assert.Equal(t, "Numpad1", entity.NormalizeKey("Numpad1"))
}
