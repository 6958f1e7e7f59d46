package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by all views.
type Styles struct {
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Header   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	FormLabel lipgloss.Style
	Pane      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), false, false, true, false),
		TabInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		FormLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Width(18),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}
