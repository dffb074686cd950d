package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#2563eb")
	muted   = lipgloss.Color("#6b7280")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1)
	textStyle  = lipgloss.NewStyle().Foreground(muted)
	labelStyle = lipgloss.NewStyle().Bold(true)

	formatStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#ffffff")).Background(primary)

	buttonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(lipgloss.Color("#ffffff")).Background(primary)
	disabledButtonStyle = lipgloss.NewStyle().Padding(0, 2).
				Foreground(lipgloss.Color("#9ca3af")).Background(lipgloss.Color("#374151"))

	successStyle = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color("#166534")).Background(lipgloss.Color("#f0fdf4"))
	errorStyle = lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color("#991b1b")).Background(lipgloss.Color("#fef2f2"))

	helpStyle = lipgloss.NewStyle().Foreground(muted).MarginTop(1)
)
