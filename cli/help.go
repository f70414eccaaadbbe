package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/grovetools/chime/tui/theme"
)

const maxWidth = 60
const minWidth = 40

// getTerminalWidth returns the terminal width capped at maxWidth.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to the specified width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
			} else if len(line)+1+len(word) <= width {
				line += " " + word
			} else {
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies chime's help styling to a command.
// Call this on the root command before Execute().
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help and usage to a command and
// all its subcommands. Call after all subcommands have been added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(styledUsageFunc)
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// styledUsageFunc suppresses cobra's default usage dump on errors; the
// error handler already prints a hint.
func styledUsageFunc(cmd *cobra.Command) error {
	return nil
}

// PrintError prints a styled error message to stderr with a help hint.
func PrintError(cmd *cobra.Command, err error) {
	t := theme.DefaultTheme
	red := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Red)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red.Render("Error:"), err.Error())
	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", t.Muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

// parseDescription splits a command's long description into main text and examples.
func parseDescription(long string) (description string, examples string) {
	markers := []string{"\nExamples:\n", "\nExample:\n"}
	for _, marker := range markers {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

// renderExamples styles example lines with muted comments and styled commands.
func renderExamples(t *theme.Theme, examples string, cmdPath string) {
	cyan := lipgloss.NewStyle().Foreground(t.Colors.Cyan)
	blue := lipgloss.NewStyle().Foreground(t.Colors.Blue)
	violet := lipgloss.NewStyle().Foreground(t.Colors.Violet)

	rootCmd := strings.Split(cmdPath, " ")[0]

	for _, line := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Println()
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			fmt.Println(" " + t.Muted.Render(trimmed))
		} else {
			fmt.Println(" " + styleCommandLine(trimmed, rootCmd, blue, cyan, violet))
		}
	}
}

// styleCommandLine applies styling to different parts of a command example.
func styleCommandLine(line, rootCmd string, mainStyle, subStyle, flagStyle lipgloss.Style) string {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return line
	}

	var result []string
	for i, part := range parts {
		switch {
		case i == 0 && part == rootCmd:
			result = append(result, mainStyle.Render(part))
		case i == 1 && !strings.HasPrefix(part, "-"):
			result = append(result, subStyle.Render(part))
		case strings.HasPrefix(part, "-"):
			result = append(result, flagStyle.Render(part))
		default:
			result = append(result, part)
		}
	}
	return "  " + strings.Join(result, " ")
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	t := theme.DefaultTheme
	blue := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue)
	section := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Yellow)
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan)

	// Width for wrapping, minus the one-space indent
	width := getTerminalWidth() - 2

	fmt.Println(" " + title.Render(strings.ToUpper(cmd.CommandPath())))

	var description, examples string
	if cmd.Long != "" {
		description, examples = parseDescription(cmd.Long)
	} else {
		description = cmd.Short
	}

	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			fmt.Println(" " + t.Muted.Render(line))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Println()
		for _, line := range strings.Split(wrapText(description, width), "\n") {
			fmt.Println(" " + line)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Println("\n " + section.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Printf(" %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Printf(" %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}

		fmt.Println("\n " + section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Printf(" %s%s  %s\n", blue.Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	var visibleFlags []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visibleFlags = append(visibleFlags, f)
		}
	})

	if len(visibleFlags) > 0 {
		if cmd.HasAvailableSubCommands() {
			// Parent commands get a compact inline flag list
			var flags []string
			for _, f := range visibleFlags {
				if f.Shorthand != "" {
					flags = append(flags, fmt.Sprintf("-%s/--%s", f.Shorthand, f.Name))
				} else {
					flags = append(flags, fmt.Sprintf("--%s", f.Name))
				}
			}
			fmt.Println("\n " + t.Muted.Render("Flags: "+strings.Join(flags, ", ")))
		} else {
			violet := lipgloss.NewStyle().Foreground(t.Colors.Violet)
			fmt.Println("\n " + section.Render("FLAGS"))
			maxFlagLen := 0
			for _, f := range visibleFlags {
				if n := len(formatFlagName(f)); n > maxFlagLen {
					maxFlagLen = n
				}
			}
			for _, f := range visibleFlags {
				flagStr := formatFlagName(f)
				padding := strings.Repeat(" ", maxFlagLen-len(flagStr))

				usage := f.Usage
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
					usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
				}
				fmt.Printf(" %s%s  %s\n", violet.Render(flagStr), padding, usage)
			}
		}
	}

	exampleText := cmd.Example
	if exampleText == "" {
		exampleText = examples
	}
	if exampleText != "" {
		fmt.Println("\n " + section.Render("EXAMPLES"))
		renderExamples(t, exampleText, cmd.CommandPath())
	}

	if cmd.HasSubCommands() {
		fmt.Printf("\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// formatFlagName returns a formatted flag string like "-f, --flag" or "--flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
