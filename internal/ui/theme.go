package ui

import "github.com/charmbracelet/lipgloss"

// Theme collects the lipgloss styles used across views.
type Theme struct {
	Title      lipgloss.Style
	Subtle     lipgloss.Style
	Accent     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Selected   lipgloss.Style
	Rank       lipgloss.Style
	StatusBar  lipgloss.Style
	InputLabel lipgloss.Style
	Help       lipgloss.Style
}

// DefaultTheme returns the default color scheme.
func DefaultTheme() Theme {
	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Subtle:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Rank:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		StatusBar:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		InputLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
