package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// MenuRenderer renders the configured menus and their shortcuts.
type MenuRenderer struct {
	theme *Theme
}

// NewMenuRenderer creates a new menu renderer with the given theme.
func NewMenuRenderer(theme *Theme) *MenuRenderer {
	return &MenuRenderer{theme: theme}
}

// RenderMenus renders every menu with its actions in display order.
// Disabled actions are listed but dimmed.
func (r *MenuRenderer) RenderMenus(cfg *entity.Config) string {
	if cfg == nil || len(cfg.Menus) == 0 {
		return fmt.Sprintf("\n  %s %s\n", r.theme.icon(IconInfo), r.theme.Subtle.Render("No menus configured."))
	}

	var sb strings.Builder
	for _, menu := range cfg.SortedMenus() {
		sb.WriteString(fmt.Sprintf("\n  %s %s %s\n",
			r.theme.icon(IconMenu),
			r.theme.Title.Render(menu.Name),
			r.theme.Subtle.Render("["+menu.ID+"]"),
		))
		sb.WriteString(fmt.Sprintf("    %s %s", r.theme.Subtle.Render("target"), menu.TargetURL()))
		if menu.AutoSubmit {
			sb.WriteString(" " + r.theme.Badge.Render("auto-submit"))
		}
		sb.WriteString("\n")

		for _, action := range menu.SortedActions() {
			sb.WriteString(r.renderAction(action))
		}
		if menu.ShowsRunAll() {
			line := fmt.Sprintf("    %s %s", r.theme.icon(IconPlay), r.theme.Highlight.Render(entity.RunAllTitle))
			if menu.RunAllShortcut != "" {
				line += " " + r.shortcut(menu.RunAllShortcut)
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

func (r *MenuRenderer) renderAction(action entity.Action) string {
	title := r.theme.Normal.Render(action.Title)
	marker := r.theme.icon(IconArrow)
	if !action.Enabled {
		title = r.theme.Subtle.Render(action.Title + " (disabled)")
		marker = r.theme.Subtle.Render(IconArrow)
	}
	line := fmt.Sprintf("    %s %s %s", marker, title, r.theme.Subtle.Render(action.ID))
	if action.Shortcut != "" {
		line += " " + r.shortcut(action.Shortcut)
	}
	return line + "\n"
}

func (r *MenuRenderer) shortcut(raw string) string {
	if canonical := entity.CanonicalShortcut(raw); canonical != "" {
		return r.theme.BadgeMuted.Render(canonical)
	}
	return lipgloss.NewStyle().Foreground(r.theme.Error).Render(raw + " (invalid)")
}

// RenderShortcuts renders the active bindings, the shortcuts that could
// not be parsed, and the canonical shortcuts claimed more than once.
func (r *MenuRenderer) RenderShortcuts(
	bindings []entity.ShortcutBinding,
	rejected []entity.RejectedShortcut,
	conflicts []entity.ShortcutConflict,
) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n  %s %s\n", r.theme.icon(IconKeyboard), r.theme.Title.Render("Shortcuts")))
	if len(bindings) == 0 {
		sb.WriteString("    " + r.theme.Subtle.Render("none bound") + "\n")
	}
	width := 0
	for _, b := range bindings {
		width = max(width, lipgloss.Width(b.Shortcut))
	}
	keyStyle := r.theme.Highlight.Width(width)
	for _, b := range bindings {
		sb.WriteString(fmt.Sprintf("    %s  %s\n", keyStyle.Render(b.Shortcut), b.Ref.String()))
	}

	warn := lipgloss.NewStyle().Foreground(r.theme.Warning)
	if len(rejected) > 0 {
		sb.WriteString(fmt.Sprintf("\n  %s %s\n", warn.Render(IconWarning), r.theme.Title.Render("Invalid shortcuts")))
		for _, rj := range rejected {
			sb.WriteString(fmt.Sprintf("    %s  %s  %s\n",
				warn.Render(rj.Raw), rj.Ref.String(), r.theme.Subtle.Render(rj.Err.Error())))
		}
	}
	if len(conflicts) > 0 {
		sb.WriteString(fmt.Sprintf("\n  %s %s\n", warn.Render(IconWarning), r.theme.Title.Render("Conflicts")))
		for _, c := range conflicts {
			owners := make([]string, 0, len(c.Refs))
			for _, ref := range c.Refs {
				owners = append(owners, ref.String())
			}
			sb.WriteString(fmt.Sprintf("    %s  %s  %s\n",
				warn.Render(c.Shortcut),
				strings.Join(owners, ", "),
				r.theme.Subtle.Render("first binding wins"),
			))
		}
	}
	return sb.String()
}
