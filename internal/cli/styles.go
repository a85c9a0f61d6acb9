package cli

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0C070")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7A8796")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4FB3BF")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC67B")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E4572E")),
	}
}
