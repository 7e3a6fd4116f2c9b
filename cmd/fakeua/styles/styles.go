// Package styles holds the shared lipgloss palette for the fakeua terminal UI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Primary   = lipgloss.Color("#FF6B9D")
	Secondary = lipgloss.Color("#C678DD")
	Accent    = lipgloss.Color("#61DAFB")
	Success   = lipgloss.Color("#98D8C8")
	Warning   = lipgloss.Color("#F59E0B")
	Danger    = lipgloss.Color("#EF4444")

	TextPrimary = lipgloss.Color("#FFFFFF")
	TextMuted   = lipgloss.Color("#6C7B7F")
	TextDimmed  = lipgloss.Color("#4A5568")
	BgCode      = lipgloss.Color("#2D3748")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	CodeStyle = lipgloss.NewStyle().
			Foreground(Success).
			Background(BgCode).
			Padding(1).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(1, 1, 0, 1)
)

// DetailPanelStyle is the bordered right-hand pane of a split layout.
func DetailPanelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(TextMuted).
		PaddingLeft(1)
}

// InfoBoxStyle frames startup information.
func InfoBoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(1, 2).
		MarginBottom(1)
}
