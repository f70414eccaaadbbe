package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/pkg/client"
	"github.com/grovetools/chime/tui/theme"
)

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running hub's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewDefault()
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			status, err := c.Status(ctx)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				data, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			t := theme.DefaultTheme
			label := func(s string) string { return t.Muted.Render(fmt.Sprintf("%-11s", s)) }

			fmt.Println(t.Title.Render("Chime hub"))
			fmt.Printf("  %s %s\n", label("Version"), status.Version)
			fmt.Printf("  %s %d\n", label("PID"), status.PID)
			fmt.Printf("  %s %s\n", label("Uptime"), (time.Duration(status.UptimeSeconds) * time.Second).String())
			fmt.Printf("  %s %s\n", label("Socket"), status.Socket)

			bus := status.BusURL
			if status.BusConnected {
				bus += " " + t.Success.Render("(connected)")
			} else {
				bus += " " + t.Error.Render("(disconnected)")
			}
			fmt.Printf("  %s %s\n", label("Bus"), bus)

			if status.BrokerEnabled {
				broker := fmt.Sprintf("embedded on %s", status.BrokerListen)
				if status.Broker != nil {
					broker += fmt.Sprintf(", %d clients", status.Broker.ClientsConnected)
				}
				fmt.Printf("  %s %s\n", label("Broker"), broker)
			} else {
				fmt.Printf("  %s %s\n", label("Broker"), t.Muted.Render("disabled"))
			}

			fmt.Printf("  %s %d active\n", label("Sessions"), status.ActiveSessions)

			unread := fmt.Sprintf("%d", status.Unread)
			if status.Unread > 0 {
				unread = t.Warning.Render(unread)
			}
			fmt.Printf("  %s %s\n", label("Unread"), unread)

			visible := "hidden"
			if status.DashboardVisible {
				visible = "visible"
			}
			fmt.Printf("  %s %s\n", label("Dashboard"), visible)

			if status.DroppedEvents > 0 {
				fmt.Printf("  %s %s\n", label("Dropped"), t.Warning.Render(fmt.Sprintf("%d events", status.DroppedEvents)))
			}

			return nil
		},
	}
}
