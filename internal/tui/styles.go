// Package tui provides the Bubble Tea prompt shown during manual login.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	titleColor    = lipgloss.Color("86")  // Cyan
	subtitleColor = lipgloss.Color("244") // Gray
	successColor  = lipgloss.Color("70")  // Green
	errorColor    = lipgloss.Color("203") // Red
	dimColor      = lipgloss.Color("241") // Dim gray
	borderColor   = lipgloss.Color("238")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(subtitleColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)
)
