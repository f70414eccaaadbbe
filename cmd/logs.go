package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/chime/pkg/paths"
	"github.com/grovetools/chime/tui/theme"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the hub log",
		Long: `Prints the hub's log file. Every chime component logs into the same
file; lines carry a [component] tag.

Examples:
  # Last 50 lines
  chime logs

  # Follow new output
  chime logs -f

  # More context
  chime logs -n 200`,
		RunE: runLogs,
	}

	cmd.Flags().IntP("lines", "n", 50, "Number of lines to show from the end")
	cmd.Flags().BoolP("follow", "f", false, "Follow log output")

	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	logFile := paths.LogFile()
	n, _ := cmd.Flags().GetInt("lines")
	follow, _ := cmd.Flags().GetBool("follow")

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		if !follow {
			fmt.Println(theme.DefaultTheme.Muted.Render("No log file yet at " + logFile))
			return nil
		}
		// In follow mode wait for the hub to create it.
	} else {
		for _, line := range lastLines(logFile, n) {
			fmt.Println(line)
		}
	}

	if !follow {
		return nil
	}

	t, err := tail.TailFile(logFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", logFile, err)
	}
	defer t.Cleanup()

	go func() {
		<-cmd.Context().Done()
		_ = t.Stop()
	}()

	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		fmt.Println(line.Text)
	}

	return nil
}

// lastLines returns the trailing n lines of a file. The hub log is
// small enough that reading it whole is fine.
func lastLines(path string, n int) []string {
	data, err := os.ReadFile(path)
	if err != nil || n <= 0 {
		return nil
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
