// Package ui provides the visual styling for the uniassist chat
// interface, with light/dark mode support.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors
	LightForeground = lipgloss.Color("#1a2a3a")
	LightPrimary    = lipgloss.Color("#1f6feb")
	LightAccent     = lipgloss.Color("#2da44e")
	LightMuted      = lipgloss.Color("#6e7781")
	LightBorder     = lipgloss.Color("#d0d7de")

	// Dark mode colors
	DarkForeground = lipgloss.Color("#e6edf3")
	DarkPrimary    = lipgloss.Color("#58a6ff")
	DarkAccent     = lipgloss.Color("#3fb950")
	DarkMuted      = lipgloss.Color("#8b949e")
	DarkBorder     = lipgloss.Color("#30363d")

	// Semantic colors, same in both modes
	Destructive = lipgloss.Color("#e5534b")
	Warning     = lipgloss.Color("#d29922")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// Styles bundles the lipgloss styles used by the chat TUI.
type Styles struct {
	Theme Theme

	Title          lipgloss.Style
	Prompt         lipgloss.Style
	UserInput      lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UniversityTag  lipgloss.Style
	Spinner        lipgloss.Style
	Error          lipgloss.Style
	Help           lipgloss.Style
	StatusBar      lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border).
			Padding(0, 1),
		Prompt:         lipgloss.NewStyle().Foreground(t.Primary),
		UserInput:      lipgloss.NewStyle().Foreground(t.Foreground),
		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		UniversityTag: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		Spinner:   lipgloss.NewStyle().Foreground(t.Accent),
		Error:     lipgloss.NewStyle().Foreground(Destructive),
		Help:      lipgloss.NewStyle().Foreground(t.Muted),
		StatusBar: lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
	}
}

// DefaultStyles picks a theme based on the terminal environment.
func DefaultStyles() Styles {
	if isDarkTerminal() {
		return NewStyles(DarkTheme())
	}
	return NewStyles(LightTheme())
}

// isDarkTerminal is a heuristic; COLORFGBG is the only broadly set
// hint, and most terminals are dark.
func isDarkTerminal() bool {
	fgbg := os.Getenv("COLORFGBG")
	if fgbg == "" {
		return true
	}
	parts := strings.Split(fgbg, ";")
	bg := parts[len(parts)-1]
	switch bg {
	case "0", "1", "2", "3", "4", "5", "6", "8":
		return true
	}
	return false
}
