package report

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("39")  // Blue
	colorSuccess = lipgloss.Color("42")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorError   = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	reasonStyle = lipgloss.NewStyle().
			Foreground(colorError).
			PaddingLeft(4)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	statusSucceeded = lipgloss.NewStyle().
			Foreground(colorSuccess).
			SetString("✓")

	statusRunning = lipgloss.NewStyle().
			Foreground(colorWarning).
			SetString("●")

	statusFailed = lipgloss.NewStyle().
			Foreground(colorError).
			SetString("✗")

	statusPending = lipgloss.NewStyle().
			Foreground(colorMuted).
			SetString("○")
)

// statusIcon returns the glyph for a job state.
func statusIcon(state string) string {
	switch state {
	case StateSucceeded:
		return statusSucceeded.String()
	case StateRunning:
		return statusRunning.String()
	case StateFailed:
		return statusFailed.String()
	default:
		return statusPending.String()
	}
}
