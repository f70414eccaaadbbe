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

// NewSessionsCmd creates the `sessions` command.
func NewSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List active Claude Code sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewDefault()
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			resp, err := c.Sessions(ctx)
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

			if len(resp.Sessions) == 0 {
				fmt.Println(t.Muted.Render("No active sessions"))
				return nil
			}

			fmt.Printf("%-24s %-10s %6s %9s %12s %6s\n",
				t.TableHeader.Render("SESSION"),
				t.TableHeader.Render("STATE"),
				t.TableHeader.Render("CTX"),
				t.TableHeader.Render("COST"),
				t.TableHeader.Render("LINES"),
				t.TableHeader.Render("AGE"),
			)
			now := time.Now()
			for _, s := range resp.Sessions {
				fmt.Printf("%-24s %-10s %6s %9s %12s %6s\n",
					truncate(s.Name, 24),
					sessionState(s.State),
					pct(s.ContextPct),
					cost(s.CostUSD),
					lines(s.LinesAdded, s.LinesRemoved),
					age(now.Sub(s.UpdatedAt)),
				)
			}

			fmt.Println()
			summary := fmt.Sprintf("%d active · $%.2f total", resp.Metrics.ActiveSessions, resp.Metrics.TotalCostUSD)
			if resp.Metrics.AvgContextPct != nil {
				summary += fmt.Sprintf(" · avg ctx %.0f%%", *resp.Metrics.AvgContextPct)
			}
			fmt.Println(t.Muted.Render(summary))

			return nil
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func sessionState(state string) string {
	if state == "" {
		return "active"
	}
	return state
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func cost(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func lines(added, removed *int) string {
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

func age(d time.Duration) string {
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

// entryTime formats a history timestamp for list output.
func entryTime(ts time.Time) string {
	now := time.Now()
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Local().Format("15:04")
	}
	return ts.Local().Format("Jan 02 15:04")
}
