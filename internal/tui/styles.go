package tui

import "github.com/charmbracelet/lipgloss"

const (
	// AppTitle heads the dashboard and the terminal browser
	AppTitle = "DriftDeck Dashboard"

	// AppTagline is shown under the title
	AppTagline = "Monitor your ML models efficiently!"

	// ReportUnavailableNotice is shown for any report that fails to load
	ReportUnavailableNotice = "Failed to load the report. Please check the file format."
)

var (
	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// Header styling for sections
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	// Warning styling for empty catalogs
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB000")).
			Bold(true)

	// Error styling
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	// Success styling
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	// Subtle text styling
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// RenderHeader renders the title block shown above interactive output.
func RenderHeader() string {
	return TitleStyle.Render(AppTitle) + "\n" + SubtleStyle.Render(AppTagline)
}
