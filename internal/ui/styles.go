// Package ui provides terminal output formatting for enginectl:
// status glyph helpers, detail panels, and list tables.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines the lipgloss styles used across commands.
var Styles = struct {
	Bold   lipgloss.Style
	Title  lipgloss.Style
	Key    lipgloss.Style
	Panel  lipgloss.Style
	Banner lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),

	Title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true),

	Key: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(0, 1),

	Banner: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(0, 2),
}
