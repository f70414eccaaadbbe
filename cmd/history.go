package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/pkg/client"
	"github.com/grovetools/chime/tui/theme"
)

// NewHistoryCmd creates the `history` command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the notification history",
		Long: `Lists recent notifications recorded by the hub, newest first.

Examples:
  # Show the last 20 notifications
  chime history

  # Only the unread ones
  chime history --unread

  # Acknowledge everything
  chime history --mark-read

  # Acknowledge one entry
  chime history --mark-read 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed

  # Wipe the stored history
  chime history --clear`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	cmd.Flags().Bool("unread", false, "Show only unread entries")
	cmd.Flags().Bool("clear", false, "Delete all stored history")
	cmd.Flags().String("mark-read", "", "Mark an entry read by id; bare flag acknowledges everything")
	cmd.Flags().Lookup("mark-read").NoOptDefVal = "all"

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	c := client.NewDefault()
	defer c.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if clear, _ := cmd.Flags().GetBool("clear"); clear {
		if err := c.ClearHistory(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared")
		return nil
	}

	if markRead, _ := cmd.Flags().GetString("mark-read"); markRead != "" {
		id := markRead
		if id == "all" {
			id = ""
		}
		unread, err := c.MarkRead(ctx, id)
		if err != nil {
			return err
		}
		if unread == 0 {
			fmt.Println("All read")
		} else {
			fmt.Printf("%d unread remaining\n", unread)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	unreadOnly, _ := cmd.Flags().GetBool("unread")

	resp, err := c.History(ctx, limit, unreadOnly)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	t := theme.DefaultTheme

	if len(resp.Entries) == 0 {
		if unreadOnly {
			fmt.Println(t.Muted.Render("No unread notifications"))
		} else {
			fmt.Println(t.Muted.Render("No notifications recorded"))
		}
		return nil
	}

	for _, e := range resp.Entries {
		marker := " "
		if !e.Read {
			marker = t.Warning.Render("●")
		}
		title := e.Title
		if title == "" {
			title = e.Kind
		}
		line := fmt.Sprintf("%s %s  %s", marker, t.Muted.Render(entryTime(e.CreatedAt)), t.Bold.Render(title))
		if e.Body != "" {
			line += "  " + strings.ReplaceAll(e.Body, "\n", "  ")
		}
		fmt.Println(line)
	}

	if resp.Unread > 0 {
		fmt.Println()
		fmt.Println(t.Muted.Render(fmt.Sprintf("%d unread", resp.Unread)))
	}

	return nil
}
