package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/tabpad/pkg/models"
)

// MaxTabNameWidth truncates long names in the tab bar
const MaxTabNameWidth = 24

// renderTabBar draws one tab per document in order. When the tabs do not fit,
// tabs are dropped from the side farthest from the active one and a marker
// shows that more exist.
func renderTabBar(docs []models.Document, activeID string, width int) string {
	if len(docs) == 0 {
		return TabBarStyle.Width(max(width, 0)).Render(TabOverflowStyle.Render(" no documents "))
	}

	tabs := make([]string, len(docs))
	active := 0
	for i, doc := range docs {
		name := truncate.StringWithTail(doc.Name, MaxTabNameWidth, "…")
		if name == "" {
			name = "untitled"
		}
		if doc.ID == activeID {
			tabs[i] = ActiveTabStyle.Render(name)
			active = i
		} else {
			tabs[i] = InactiveTabStyle.Render(name)
		}
	}

	lo, hi := active, active+1
	used := lipgloss.Width(tabs[active])
	const marker = 2
	for {
		grew := false
		if hi < len(tabs) && used+lipgloss.Width(tabs[hi])+1+2*marker <= width {
			used += lipgloss.Width(tabs[hi]) + 1
			hi++
			grew = true
		}
		if lo > 0 && used+lipgloss.Width(tabs[lo-1])+1+2*marker <= width {
			used += lipgloss.Width(tabs[lo-1]) + 1
			lo--
			grew = true
		}
		if !grew {
			break
		}
	}

	parts := []string{}
	if lo > 0 {
		parts = append(parts, TabOverflowStyle.Render("‹ "))
	}
	for i := lo; i < hi; i++ {
		if i > lo {
			parts = append(parts, " ")
		}
		parts = append(parts, tabs[i])
	}
	if hi < len(tabs) {
		parts = append(parts, TabOverflowStyle.Render(" ›"))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if width > 0 {
		return TabBarStyle.Width(width).MaxWidth(width).Render(bar)
	}
	return bar
}
