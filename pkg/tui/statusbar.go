package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/utils"
)

type statusInfo struct {
	doc      *models.Document
	line     int
	column   int
	wordWrap bool
	readOnly bool
	message  string
	isError  bool
}

// renderStatusBar shows the active document's name, language, cursor
// position, preview wrap mode and size on the left and the transient message
// on the right.
func renderStatusBar(info statusInfo, width int) string {
	var left []string
	if info.doc != nil {
		stats := utils.Stats(info.doc.Content)
		left = append(left,
			StatusNameStyle.Render(info.doc.Name),
			StatusLanguageStyle.Render(info.doc.Language.Label()),
			StatusSegmentStyle.Render(fmt.Sprintf("Ln %d, Col %d", info.line, info.column)),
		)
		if info.readOnly {
			left = append(left, StatusErrorStyle.Render("Read-only"))
		}
		left = append(left,
			StatusSegmentStyle.Render("Preview: "+wrapLabel(info.wordWrap)),
			StatusSegmentStyle.Render(stats.Summary()),
		)
	} else {
		left = append(left, StatusSegmentStyle.Render("No document open, ^n to create one"))
	}

	leftBar := lipgloss.JoinHorizontal(lipgloss.Top, left...)

	var right string
	if info.message != "" {
		if info.isError {
			right = StatusErrorStyle.Render(info.message)
		} else {
			right = StatusMessageStyle.Render(info.message)
		}
	}

	gap := width - lipgloss.Width(leftBar) - lipgloss.Width(right)
	if gap < 1 {
		// Message takes priority over the stats when space runs out
		if right != "" {
			return StatusBarStyle.Width(max(width, 0)).MaxWidth(max(width, 1)).Render(right)
		}
		return StatusBarStyle.MaxWidth(max(width, 1)).Render(leftBar)
	}

	return leftBar + StatusBarStyle.Render(fmt.Sprintf("%*s", gap, "")) + right
}

func wrapLabel(on bool) string {
	if on {
		return "Wrap"
	}
	return "No Wrap"
}
