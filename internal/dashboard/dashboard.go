// Package dashboard is the terminal UI for a running chime hub. It
// shows live sessions and the notification backlog, and reports
// terminal focus back to the hub so desktop delivery can be muted
// while the user is already watching.
package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/chime/pkg/client"
	"github.com/grovetools/chime/tui"
)

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, c *client.Client) error {
	tui.InitializeTUI()

	p := tea.NewProgram(
		newModel(ctx, c),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		if err == tea.ErrProgramKilled && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
