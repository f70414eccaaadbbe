package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/pkg/client"
	"github.com/grovetools/chime/tui/theme"
)

// NewTestCmd creates the `test` command.
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test notification through the hub",
		Long: `Asks the running hub to deliver a synthetic notification through the
full pipeline: desktop toast, sound, tray, history, and the dashboard
stream. Use it to verify the setup end to end.

Examples:
  # Default test notification
  chime test

  # Exercise the approval styling
  chime test --kind approval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewDefault()
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			kind, _ := cmd.Flags().GetString("kind")
			n, err := c.Test(ctx, kind)
			if err != nil {
				return err
			}

			t := theme.DefaultTheme
			fmt.Printf("%s %s (%s)\n", t.Success.Render("Delivered:"), n.Title, n.Kind)
			fmt.Println(t.Muted.Render("Check your desktop; 'chime history' should show it too."))
			return nil
		},
	}

	cmd.Flags().String("kind", "", "Notification kind: task_complete, approval, question, notification, error, test")

	return cmd
}
