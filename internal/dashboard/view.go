package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// View renders the full dashboard frame.
func (m Model) View() string {
	if !m.ready {
		return "Connecting to hub..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.Title.Render("Notifications"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.theme.Title.Render("chime")

	stats := fmt.Sprintf("%d sessions · $%.2f", m.metrics.ActiveSessions, m.metrics.TotalCostUSD)
	if m.metrics.AvgContextPct != nil {
		stats += fmt.Sprintf(" · ctx %.0f%%", *m.metrics.AvgContextPct)
	}
	left := title + "  " + m.theme.Muted.Render(stats)

	var right string
	if m.connected {
		right = m.theme.Success.Render("● connected")
	} else {
		right = m.theme.Error.Render("○ disconnected")
	}
	if m.unread > 0 {
		right = m.theme.Warning.Render(fmt.Sprintf("%d unread", m.unread)) + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) footerView() string {
	if m.notice != "" {
		return m.theme.Warning.Render(m.notice)
	}
	return m.help.View(m.keys)
}

// resize fits the table and viewport to the current terminal size.
func (m *Model) resize() {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	m.table.SetColumns(sessionColumns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(sessionPaneHeight)
	m.help.Width = width

	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = 2
	}
	vpHeight := m.height - sessionPaneHeight - helpHeight - 5
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.refreshViewport()
}

// refreshTable rebuilds the sessions table rows.
func (m *Model) refreshTable() {
	now := time.Now()
	rows := make([]table.Row, 0, len(m.sessions))
	for _, s := range m.sessions {
		rows = append(rows, table.Row{
			s.Name,
			stateLabel(s.State),
			formatPct(s.ContextPct),
			formatCost(s.CostUSD),
			formatLines(s.LinesAdded, s.LinesRemoved),
			formatAge(now.Sub(s.UpdatedAt)),
		})
	}
	m.table.SetRows(rows)
}

// refreshViewport rebuilds the notification pane content.
func (m *Model) refreshViewport() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(m.theme.Muted.Render("No notifications yet."))
		return
	}
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, m.renderEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}
