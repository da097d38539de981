package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal rendering.
type Theme struct {
	Primary lipgloss.Color // main accent color
	Dim     lipgloss.Color // dimmed/help text color
	Alert   lipgloss.Color // error highlight color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Alert:   lipgloss.Color("#ff5f5f"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Help  lipgloss.Style
	Alert lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Help:  lipgloss.NewStyle().Foreground(t.Dim),
		Alert: lipgloss.NewStyle().Bold(true).Foreground(t.Alert),
	}
}

// Meter renders a fixed-width level bar for an amplitude in [0, 1].
func Meter(level float32, width int) string {
	if width <= 0 {
		return ""
	}
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * float32(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// StatusLine renders the live view status line: connection state, mic
// level meter and a hint.
func StatusLine(styles Styles, state string, level float32) string {
	label := styles.Label.Render("[" + state + "]")
	meter := styles.Help.Render("mic ") + Meter(level, 20)
	return label + " " + meter
}
