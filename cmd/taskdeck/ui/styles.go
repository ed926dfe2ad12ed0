// Package ui provides the bubbletea pages and visual styling for the
// taskdeck terminal client.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, shared by both themes.
var (
	colorDanger  = lipgloss.Color("#e53935")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Theme holds one color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// DarkTheme returns the dark scheme (default).
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Primary:    lipgloss.Color("#ff8a3d"),
		Accent:     lipgloss.Color("#ffb380"),
		Muted:      lipgloss.Color("#8a8f98"),
		Border:     lipgloss.Color("#3a3f47"),
		IsDark:     true,
	}
}

// LightTheme returns the light scheme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#1c1c1c"),
		Primary:    lipgloss.Color("#d9480f"),
		Accent:     lipgloss.Color("#e8590c"),
		Muted:      lipgloss.Color("#6c757d"),
		Border:     lipgloss.Color("#ced4da"),
		IsDark:     false,
	}
}

// ThemeByName maps a config theme name to a Theme, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds the styled components used across pages.
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style

	FieldLabel   lipgloss.Style
	FieldError   lipgloss.Style
	InputFocused lipgloss.Style
	InputBlurred lipgloss.Style

	Sidebar         lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarItem     lipgloss.Style

	TaskRow      lipgloss.Style
	TaskSelected lipgloss.Style
	TaskDone     lipgloss.Style

	BadgeHigh     lipgloss.Style
	BadgeMedium   lipgloss.Style
	BadgeLow      lipgloss.Style
	BadgeCategory lipgloss.Style
	BadgeDue      lipgloss.Style

	Overlay lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles builds the styles for a theme.
func NewStyles(theme Theme) Styles {
	inputBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		FieldLabel: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		FieldError: lipgloss.NewStyle().
			Foreground(colorDanger),

		InputFocused: inputBase.BorderForeground(theme.Primary),
		InputBlurred: inputBase.BorderForeground(theme.Border),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(theme.Border).
			PaddingRight(2),

		SidebarSelected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		SidebarItem: lipgloss.NewStyle().
			Foreground(theme.Muted),

		TaskRow: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		TaskSelected: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		TaskDone: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Strikethrough(true),

		BadgeHigh:     badge.Foreground(colorDanger),
		BadgeMedium:   badge.Foreground(colorWarning),
		BadgeLow:      badge.Foreground(colorInfo),
		BadgeCategory: badge.Foreground(theme.Muted),
		BadgeDue:      badge.Foreground(theme.Accent),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 2),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// RenderDivider returns a horizontal rule of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
