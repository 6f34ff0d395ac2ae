package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for active elements
	ColorInactive = "240" // Gray for inactive elements
	ColorSelected = "236" // Dark gray for background selection
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorWarning  = "214" // Orange/yellow for warnings
	ColorDanger   = "196" // Red for dangerous actions
	ColorSuccess  = "28"  // Green for success
	ColorWhite    = "255" // White
	ColorDark     = "235" // Dark for contrast
	ColorBorder   = "243" // Border gray
	ColorPrimary  = "33"  // Blue for primary actions
	ColorError    = "196" // Red for errors (same as danger)
)

// Common styles
var (
	// Tab bar
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Background(lipgloss.Color(ColorActive)).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorNormal)).
				Background(lipgloss.Color(ColorSelected)).
				Padding(0, 1)

	TabOverflowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDim))

	TabBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorDark))

	// Panes
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorActive))

	InactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal)).
			Background(lipgloss.Color(ColorDark))

	StatusNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Background(lipgloss.Color(ColorPrimary)).
			Bold(true).
			Padding(0, 1)

	StatusLanguageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDark)).
				Background(lipgloss.Color(ColorWarning)).
				Padding(0, 1)

	StatusSegmentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorNormal)).
				Background(lipgloss.Color(ColorDark)).
				Padding(0, 1)

	StatusMessageStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230")).
				Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(ColorError)).
				Foreground(lipgloss.Color(ColorWhite)).
				Bold(true).
				Padding(0, 1)

	// Confirmation styles
	ConfirmDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDanger)).
				Bold(true)

	ConfirmSafeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess)).
				Bold(true)

	// Dialog styles
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorActive)).
			Padding(0, 1)

	DialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorWarning))

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDim))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Background(lipgloss.Color(ColorSelected)).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal))

	// Preview
	PreviewHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorDim))
)

// GetActiveBorderStyle returns the pane border for the focused state
func GetActiveBorderStyle(isActive bool) lipgloss.Style {
	if isActive {
		return ActiveBorderStyle
	}
	return InactiveBorderStyle
}
