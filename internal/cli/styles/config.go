package styles

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfigInfo renders the config file location.
func (r *ConfigRenderer) RenderConfigInfo(path string) string {
	return fmt.Sprintf(
		"\n  %s Config %s\n",
		r.theme.icon(IconConfig),
		r.theme.Subtle.Render(path),
	)
}

// RenderValid renders the result of a successful validation.
func (r *ConfigRenderer) RenderValid(path string, menus, actions int) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	countStyle := r.theme.Highlight

	return fmt.Sprintf(
		"\n  %s %s is valid: %s menus, %s actions\n",
		iconStyle.Render(IconCheck),
		r.theme.Subtle.Render(filepath.Base(path)),
		countStyle.Render(fmt.Sprintf("%d", menus)),
		countStyle.Render(fmt.Sprintf("%d", actions)),
	)
}

// RenderImported renders the import summary. migrated is set when the
// document used the legacy flat layout.
func (r *ConfigRenderer) RenderImported(source, path string, migrated bool) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	out := fmt.Sprintf(
		"\n  %s Imported %s into %s\n",
		iconStyle.Render(IconCheck),
		r.theme.Highlight.Render(filepath.Base(source)),
		r.theme.Subtle.Render(path),
	)
	if migrated {
		out += fmt.Sprintf("  %s %s\n",
			r.theme.icon(IconInfo),
			r.theme.Subtle.Render("Legacy actions were moved into the Default Menu."),
		)
	}
	return out
}

// RenderWritten renders a "file written" confirmation.
func (r *ConfigRenderer) RenderWritten(what, path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)

	return fmt.Sprintf(
		"\n  %s Wrote %s to %s\n",
		iconStyle.Render(IconCheck),
		what,
		r.theme.Subtle.Render(path),
	)
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}
