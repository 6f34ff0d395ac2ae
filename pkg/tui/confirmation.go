package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationModel handles inline yes/no prompts
type ConfirmationModel struct {
	active      bool
	message     string
	destructive bool
	onConfirm   func() tea.Cmd
	onCancel    func() tea.Cmd
}

// NewConfirmation creates a new confirmation model
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the confirmation
func (m *ConfirmationModel) Show(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.message = message
	m.destructive = destructive
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

// Hide deactivates the confirmation
func (m *ConfirmationModel) Hide() {
	m.active = false
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the confirmation
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	answer := msg.String()
	if answer == "enter" {
		// Enter picks the capitalized default
		answer = "y"
		if m.destructive {
			answer = "n"
		}
	}

	switch answer {
	case "y", "Y":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
		return nil

	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
		return nil
	}

	return nil
}

// View renders the prompt centered in width
func (m *ConfirmationModel) View(width int) string {
	if !m.active {
		return ""
	}

	message := fmt.Sprintf("%s %s", m.message, formatConfirmOptions(m.destructive))
	if width > 0 && lipgloss.Width(message) < width {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(message)
	}
	return message
}

// formatConfirmOptions colors the answer that destroys data red
func formatConfirmOptions(destructive bool) string {
	if destructive {
		return fmt.Sprintf("[%s/%s]", ConfirmDangerStyle.Render("y"), ConfirmSafeStyle.Render("N"))
	}
	return fmt.Sprintf("[%s/%s]", ConfirmSafeStyle.Render("Y"), NormalStyle.Render("n"))
}
