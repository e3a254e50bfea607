package entity

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Modifier is a bit set of keyboard modifiers.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

// ModNone means no modifier is held.
const ModNone Modifier = 0

// modifierOrder fixes the canonical rendering order.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMeta, "Meta"},
}

// ErrInvalidShortcut is returned when a shortcut string cannot be used as a
// global binding.
var ErrInvalidShortcut = errors.New("invalid shortcut")

// Shortcut is a parsed key chord: a modifier set plus exactly one key.
type Shortcut struct {
	Modifiers Modifier
	Key       string
}

// KeyPress is the chord observed for a single physical key event.
type KeyPress struct {
	Modifiers Modifier
	Key       string
}

// legacySymbols converts the glyph notation older configurations used.
var legacySymbols = strings.NewReplacer(
	"⌃", "Ctrl+",
	"⌥", "Alt+",
	"⇧", "Shift+",
	"⌘", "Meta+",
)

// ParseShortcut parses strings like "Ctrl+Shift+S", "⌃⇧S" or
// "ctrl + alt + keyK". A valid shortcut needs at least one modifier and
// exactly one non-modifier key.
func ParseShortcut(raw string) (Shortcut, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Shortcut{}, fmt.Errorf("%w: empty", ErrInvalidShortcut)
	}

	var sc Shortcut
	for _, part := range strings.Split(legacySymbols.Replace(trimmed), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mod, ok := parseModifier(part); ok {
			sc.Modifiers |= mod
			continue
		}
		if sc.Key != "" {
			return Shortcut{}, fmt.Errorf("%w: %q has more than one key", ErrInvalidShortcut, raw)
		}
		sc.Key = NormalizeKey(part)
	}

	if sc.Key == "" {
		return Shortcut{}, fmt.Errorf("%w: %q has no key", ErrInvalidShortcut, raw)
	}
	if sc.Modifiers == ModNone {
		return Shortcut{}, fmt.Errorf("%w: %q needs at least one modifier", ErrInvalidShortcut, raw)
	}
	return sc, nil
}

// CanonicalShortcut returns the canonical form of raw, or "" when raw is
// not a valid shortcut.
func CanonicalShortcut(raw string) string {
	sc, err := ParseShortcut(raw)
	if err != nil {
		return ""
	}
	return sc.String()
}

func parseModifier(part string) (Modifier, bool) {
	switch strings.ToLower(part) {
	case "ctrl", "control", "ctl":
		return ModCtrl, true
	case "alt", "option", "opt":
		return ModAlt, true
	case "shift":
		return ModShift, true
	case "meta", "cmd", "command", "super", "win":
		return ModMeta, true
	}
	return ModNone, false
}

// String renders the canonical form "Ctrl+Alt+Shift+Meta+Key", listing
// only the modifiers present.
func (s Shortcut) String() string {
	return renderChord(s.Modifiers, s.Key)
}

func (p KeyPress) String() string {
	return renderChord(p.Modifiers, p.Key)
}

func renderChord(mods Modifier, key string) string {
	parts := make([]string, 0, len(modifierOrder)+1)
	for _, m := range modifierOrder {
		if mods&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, key)
	return strings.Join(parts, "+")
}

// Matches reports whether a key press triggers the shortcut. Modifier sets
// must be equal, so Ctrl+Shift+S does not fire Ctrl+S.
func (s Shortcut) Matches(p KeyPress) bool {
	return s.Key != "" && s.Modifiers != ModNone && s.Modifiers == p.Modifiers && s.Key == p.Key
}

// namedKeys maps lowercase spellings to the names physical key codes use.
var namedKeys = map[string]string{
	"enter": "Enter", "return": "Enter",
	"escape": "Escape", "esc": "Escape",
	"space": "Space", "spacebar": "Space", " ": "Space",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete", "del": "Delete",
	"insert": "Insert", "ins": "Insert",
	"home": "Home", "end": "End",
	"pageup": "PageUp", "pgup": "PageUp",
	"pagedown": "PageDown", "pgdn": "PageDown",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
	"comma": "Comma", ",": "Comma",
	"period": "Period", ".": "Period",
	"slash": "Slash", "/": "Slash",
	"backslash": "Backslash", "\\": "Backslash",
	"semicolon": "Semicolon", ";": "Semicolon",
	"quote": "Quote", "'": "Quote",
	"minus": "Minus", "-": "Minus",
	"equal": "Equal", "=": "Equal",
	"backquote": "Backquote", "`": "Backquote",
	"bracketleft": "BracketLeft", "[": "BracketLeft",
	"bracketright": "BracketRight", "]": "BracketRight",
}

// NormalizeKey maps a key token or a physical key code to its canonical
// name: KeyS and s become S, Digit1 becomes 1, ArrowUp becomes Up.
func NormalizeKey(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	switch {
	case len(token) == 4 && strings.HasPrefix(token, "Key") && isASCIILetter(token[3]):
		return strings.ToUpper(token[3:])
	case len(token) == 6 && strings.HasPrefix(token, "Digit") && isASCIIDigit(token[5]):
		return token[5:]
	case strings.HasPrefix(token, "Arrow") && len(token) > len("Arrow"):
		token = token[len("Arrow"):]
	}

	if utf8.RuneCountInString(token) == 1 && isASCIILetter(token[0]) {
		return strings.ToUpper(token)
	}

	lower := strings.ToLower(token)
	if name, ok := namedKeys[lower]; ok {
		return name
	}
	if len(lower) >= 2 && lower[0] == 'f' && allDigits(lower[1:]) {
		return "F" + lower[1:]
	}
	return token
}

func isASCIILetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIIDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

// KeyEvent is a raw keydown observed in a page, keyed by physical code so
// that layouts and shifted characters do not change the result.
type KeyEvent struct {
	Code           string  `json:"code"`
	Key            string  `json:"key,omitempty"`
	Ctrl           bool    `json:"ctrl"`
	Alt            bool    `json:"alt"`
	Shift          bool    `json:"shift"`
	Meta           bool    `json:"meta"`
	TargetTag      string  `json:"targetTag,omitempty"`
	TargetEditable bool    `json:"targetEditable,omitempty"`
	Selection      string  `json:"selection,omitempty"`
	Timestamp      float64 `json:"ts,omitempty"`
}

// TargetIsEditable reports whether the event originated from a text field
// or contenteditable element, where typing must not trigger shortcuts.
func (e KeyEvent) TargetIsEditable() bool {
	if e.TargetEditable {
		return true
	}
	switch strings.ToUpper(e.TargetTag) {
	case "INPUT", "TEXTAREA":
		return true
	}
	return false
}

// modifierCodes are physical codes of the modifier keys themselves.
var modifierCodes = map[string]struct{}{
	"ControlLeft": {}, "ControlRight": {},
	"AltLeft": {}, "AltRight": {},
	"ShiftLeft": {}, "ShiftRight": {},
	"MetaLeft": {}, "MetaRight": {},
	"OSLeft": {}, "OSRight": {},
}

// KeyPressFromEvent derives the chord for an event. It returns false when
// the event is a bare modifier key or carries no code.
func KeyPressFromEvent(e KeyEvent) (KeyPress, bool) {
	if e.Code == "" {
		return KeyPress{}, false
	}
	if _, ok := modifierCodes[e.Code]; ok {
		return KeyPress{}, false
	}

	var mods Modifier
	if e.Ctrl {
		mods |= ModCtrl
	}
	if e.Alt {
		mods |= ModAlt
	}
	if e.Shift {
		mods |= ModShift
	}
	if e.Meta {
		mods |= ModMeta
	}
	return KeyPress{Modifiers: mods, Key: NormalizeKey(e.Code)}, true
}
