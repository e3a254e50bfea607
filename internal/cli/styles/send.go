package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// SendRenderer renders control API replies.
type SendRenderer struct {
	theme *Theme
}

// NewSendRenderer creates a new send renderer with the given theme.
func NewSendRenderer(theme *Theme) *SendRenderer {
	return &SendRenderer{theme: theme}
}

// RenderQueued confirms a request was accepted by the daemon.
func (r *SendRenderer) RenderQueued(ref entity.ActionRef, textLen int) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf(
		"\n  %s Sent %s %s\n",
		iconStyle.Render(IconSend),
		r.theme.Highlight.Render(ref.String()),
		r.theme.Subtle.Render(fmt.Sprintf("(%d characters)", textLen)),
	)
}

// RenderHealth renders the daemon status line.
func (r *SendRenderer) RenderHealth(addr, status, version, uptime string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	if status != "ok" {
		iconStyle = lipgloss.NewStyle().Foreground(r.theme.Warning)
	}
	return fmt.Sprintf(
		"\n  %s Daemon %s at %s\n  %s %s %s %s\n",
		iconStyle.Render(IconPlay),
		r.theme.Highlight.Render(status),
		r.theme.Subtle.Render(addr),
		r.theme.icon(IconVersion),
		r.theme.Normal.Render(version),
		r.theme.icon(IconClock),
		r.theme.Normal.Render("up "+uptime),
	)
}

// RenderError renders a failed call.
func (r *SendRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	return fmt.Sprintf("\n  %s %v\n", iconStyle.Render(IconX), err)
}
