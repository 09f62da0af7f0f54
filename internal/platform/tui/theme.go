package tui

import "github.com/charmbracelet/lipgloss"

// Theme contains the styles of the menu screens. Game boards are drawn
// through colorStyles instead.
type Theme struct {
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	Stars           lipgloss.Style
	Cleared         lipgloss.Style
	Controls        lipgloss.Style
	Border          lipgloss.Style
	Selected        lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Stars:           lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Cleared:         lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Controls:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Border:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selected:        lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
	}
}

// MonochromeTheme returns a grayscale theme for terminals without color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.MenuTitle = lipgloss.NewStyle().Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Bold(true).Underline(true)
	theme.Stars = lipgloss.NewStyle()
	theme.Cleared = lipgloss.NewStyle()
	theme.Selected = lipgloss.NewStyle().Reverse(true)
	return theme
}

var theme = DefaultTheme()

// SetTheme sets the theme used by menu screens.
func SetTheme(t Theme) {
	theme = t
}

// CurrentTheme returns the active menu theme.
func CurrentTheme() Theme {
	return theme
}
