package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("63")
	secondaryColor = lipgloss.Color("240")
	accentColor    = lipgloss.Color("205")
	errorColor     = lipgloss.Color("196")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	enabledButtonStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(secondaryColor).
				Strikethrough(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	busyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	answerStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
