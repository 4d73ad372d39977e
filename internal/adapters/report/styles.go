package report

import "github.com/charmbracelet/lipgloss"

var (
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorIris).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(colorSlate)

	updateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorSlate).
			Faint(true)

	rootStyle = lipgloss.NewStyle().
			Foreground(colorIris).
			Bold(true)
)
