package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/chime/pkg/api"
)

func formatPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func formatCost(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func formatLines(added, removed *int) string {
	if added == nil && removed == nil {
		return "-"
	}
	var a, r int
	if added != nil {
		a = *added
	}
	if removed != nil {
		r = *removed
	}
	return fmt.Sprintf("+%d/-%d", a, r)
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func stateLabel(state string) string {
	if state == "" {
		return "active"
	}
	return state
}

// renderEntry formats one notification line for the backlog pane.
func (m Model) renderEntry(e api.HistoryEntry) string {
	ts := m.theme.Muted.Render(e.CreatedAt.Local().Format("15:04"))

	title := e.Title
	if title == "" {
		title = e.Kind
	}
	styled := m.theme.Bold.Render(title)
	if e.Read {
		styled = m.theme.Muted.Render(title)
	}

	body := strings.ReplaceAll(e.Body, "\n", "  ")
	if body == "" {
		return fmt.Sprintf("%s %s", ts, styled)
	}
	return fmt.Sprintf("%s %s  %s", ts, styled, body)
}
