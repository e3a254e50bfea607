package styles

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/promptcast/internal/domain/entity"
)

// HistoryRenderer renders recorded injection attempts.
type HistoryRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewHistoryRenderer creates a new history renderer with the given theme.
func NewHistoryRenderer(theme *Theme) *HistoryRenderer {
	return &HistoryRenderer{theme: theme, now: time.Now}
}

// HistoryColumns are the headers of the attempt table.
var HistoryColumns = []string{"When", "Action", "Tab", "Outcome", "State", "Took"}

// Rows converts attempts into table rows, newest first as given.
func (r *HistoryRenderer) Rows(attempts []*entity.AttemptRecord) [][]string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		label := a.Label
		if label == "" {
			label = entity.ActionRef{MenuID: a.MenuID, ActionID: a.ActionID}.String()
		}
		if a.Retry {
			label += " (retry)"
		}
		if a.Fallback {
			label += " (new tab)"
		}
		rows = append(rows, []string{
			relativeTime(r.now(), a.StartedAt),
			label,
			shortTab(string(a.TabID)),
			string(a.Outcome),
			string(a.State),
			a.Duration().Round(time.Millisecond).String(),
		})
	}
	return rows
}

// RenderAttempts renders attempts as a bordered table.
func (r *HistoryRenderer) RenderAttempts(attempts []*entity.AttemptRecord) string {
	if len(attempts) == 0 {
		return fmt.Sprintf("\n  %s %s\n", r.theme.icon(IconDatabase), r.theme.Subtle.Render("No attempts recorded."))
	}

	outcomeCol := 3
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers(HistoryColumns...).
		Rows(r.Rows(attempts)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.theme.TableHeader
			}
			if col == outcomeCol {
				return r.outcomeStyle(attempts[row].Outcome)
			}
			return r.theme.TableCell
		})
	return t.Render()
}

func (r *HistoryRenderer) outcomeStyle(o entity.AttemptOutcome) lipgloss.Style {
	base := r.theme.TableCell
	switch o {
	case entity.OutcomeSucceeded:
		return base.Foreground(r.theme.Success)
	case entity.OutcomeFailed, entity.OutcomeError:
		return base.Foreground(r.theme.Error)
	default:
		return base.Foreground(r.theme.Muted)
	}
}

func shortTab(id string) string {
	const keep = 8
	if len(id) <= keep {
		return id
	}
	return id[:keep]
}

func relativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h ago"
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}
