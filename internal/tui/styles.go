package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Pane styles
var (
	StyleTranscript = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	StyleSidebar = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Transcript styles
var (
	StyleQuestion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	StylePoem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	StyleSpeaker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleThinking = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow"))
)
