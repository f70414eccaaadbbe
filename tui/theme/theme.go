package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "chime"

// --- Chime (dark) palette ---
const (
	chimeGreen       = "#98BB6C"
	chimeYellow      = "#FF9E3B"
	chimeRed         = "#FF5D62"
	chimeCyan        = "#7E9CD8"
	chimeBlue        = "#7FB4CA"
	chimeViolet      = "#957FB8"
	chimeLightText   = "#DCD7BA"
	chimeMutedText   = "#727169"
	chimeBorder      = "#363646"
	chimeSelectedBg  = "#223249"
	chimeSubtleBg    = "#1F1F28"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen      = "2"
	terminalYellow     = "3"
	terminalRed        = "1"
	terminalCyan       = "6"
	terminalBlue       = "4"
	terminalViolet     = "5"
	terminalLightText  = "7"
	terminalMutedText  = "8"
	terminalBorder     = "8"
	terminalSelectedBg = "8"
	terminalSubtleBg   = "0"
)

// Colors encapsulates the palette used by a theme.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Blue               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
}

// Theme holds all the pre-configured styles for Chime's CLI and dashboard.
type Theme struct {
	Colors Colors

	// Headers and titles
	Header lipgloss.Style
	Title  lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Text styles - visual hierarchy
	Bold     lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableBorder lipgloss.Style

	// Container styles
	Box lipgloss.Style

	// Special styles
	Highlight lipgloss.Style
	Accent    lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"chime":    newChimeColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is the default theme instance for Chime.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the CHIME_THEME environment variable,
// falling back to the built-in palette.
func NewTheme() *Theme {
	return NewThemeWithName(getThemeName())
}

// NewThemeWithName constructs a theme from a specific palette name.
func NewThemeWithName(name string) *Theme {
	builder, ok := themeRegistry[name]
	if !ok {
		builder = themeRegistry[defaultThemeName]
	}
	return newThemeFromColors(builder())
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func getThemeName() string {
	if name := os.Getenv("CHIME_THEME"); name != "" {
		return name
	}
	return defaultThemeName
}

func newChimeColors() Colors {
	return Colors{
		Green:              lipgloss.Color(chimeGreen),
		Yellow:             lipgloss.Color(chimeYellow),
		Red:                lipgloss.Color(chimeRed),
		Cyan:               lipgloss.Color(chimeCyan),
		Blue:               lipgloss.Color(chimeBlue),
		Violet:             lipgloss.Color(chimeViolet),
		LightText:          lipgloss.Color(chimeLightText),
		MutedText:          lipgloss.Color(chimeMutedText),
		Border:             lipgloss.Color(chimeBorder),
		SelectedBackground: lipgloss.Color(chimeSelectedBg),
		SubtleBackground:   lipgloss.Color(chimeSubtleBg),
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color(terminalGreen),
		Yellow:             lipgloss.Color(terminalYellow),
		Red:                lipgloss.Color(terminalRed),
		Cyan:               lipgloss.Color(terminalCyan),
		Blue:               lipgloss.Color(terminalBlue),
		Violet:             lipgloss.Color(terminalViolet),
		LightText:          lipgloss.Color(terminalLightText),
		MutedText:          lipgloss.Color(terminalMutedText),
		Border:             lipgloss.Color(terminalBorder),
		SelectedBackground: lipgloss.Color(terminalSelectedBg),
		SubtleBackground:   lipgloss.Color(terminalSubtleBg),
	}
}

func newThemeFromColors(colors Colors) *Theme {
	return &Theme{
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginBottom(1),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Blue),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Normal: lipgloss.NewStyle().
			Foreground(colors.LightText),

		Muted: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.LightText),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Cyan).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colors.Border),

		TableBorder: lipgloss.NewStyle().
			Foreground(colors.Border),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Highlight: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Cyan),
	}
}
