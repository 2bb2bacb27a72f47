package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"cached":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"copied":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"imported": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"running":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"importing": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"stopped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"blocked": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}
