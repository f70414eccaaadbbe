package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/internal/dashboard"
	"github.com/grovetools/chime/pkg/client"
	"github.com/grovetools/chime/pkg/paths"
)

// NewDashboardCmd creates the `dashboard` command.
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the live terminal dashboard",
		Long: `Shows active sessions and the notification backlog, updating live
from the hub's event stream. While the dashboard terminal is focused the
hub suppresses desktop notifications.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewDefault()
			defer c.Close()

			if !c.IsRunning() {
				return errors.HubNotRunning(paths.SocketPath())
			}

			return dashboard.Run(cmd.Context(), c)
		},
	}
}
