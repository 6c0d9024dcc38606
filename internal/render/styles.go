package render

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#3b82f6")
	Secondary = lipgloss.Color("#22c55e")
	Warning   = lipgloss.Color("#eab308")
	Danger    = lipgloss.Color("#ef4444")
	Muted     = lipgloss.Color("#6b7280")
)

// Styles groups the lipgloss styles used for console output
type Styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Bullet  lipgloss.Style
	Panel   lipgloss.Style
	Banner  lipgloss.Style
	Cell    lipgloss.Style
	Header  lipgloss.Style
	Option  lipgloss.Style
	Feature lipgloss.Style
}

// DefaultStyles returns the application styles
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Heading: lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
		Warning: lipgloss.NewStyle().Foreground(Warning).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(Danger).Bold(true),
		Bullet:  lipgloss.NewStyle().Foreground(Secondary),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 2),
		Cell:    lipgloss.NewStyle().Padding(0, 1),
		Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Option:  lipgloss.NewStyle().Foreground(lipgloss.Color("#06b6d4")).Padding(0, 1),
		Feature: lipgloss.NewStyle().Foreground(Secondary).Padding(0, 1),
	}
}
