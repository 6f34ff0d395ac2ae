package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pluqqy/tabpad/pkg/models"
)

func makeDocs(n int) []models.Document {
	docs := make([]models.Document, n)
	for i := range docs {
		docs[i] = models.Document{
			ID:       fmt.Sprintf("id-%02d", i),
			Name:     fmt.Sprintf("document-%02d.txt", i),
			Language: models.LanguageText,
		}
	}
	return docs
}

func TestRenderTabBar(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		assert.Contains(t, renderTabBar(nil, "", 80), "no documents")
	})

	t.Run("all tabs fit", func(t *testing.T) {
		docs := makeDocs(3)
		bar := renderTabBar(docs, docs[1].ID, 120)
		for _, doc := range docs {
			assert.Contains(t, bar, doc.Name)
		}
		assert.NotContains(t, bar, "‹")
		assert.NotContains(t, bar, "›")
	})

	t.Run("overflow after the active tab", func(t *testing.T) {
		docs := makeDocs(10)
		bar := renderTabBar(docs, docs[0].ID, 60)
		assert.Contains(t, bar, docs[0].Name)
		assert.NotContains(t, bar, docs[9].Name)
		assert.Contains(t, bar, "›")
		assert.NotContains(t, bar, "‹")
		assert.LessOrEqual(t, lipgloss.Width(bar), 60)
	})

	t.Run("overflow on both sides", func(t *testing.T) {
		docs := makeDocs(10)
		bar := renderTabBar(docs, docs[5].ID, 60)
		assert.Contains(t, bar, docs[5].Name)
		assert.Contains(t, bar, "‹")
		assert.Contains(t, bar, "›")
	})

	t.Run("long names are truncated", func(t *testing.T) {
		docs := []models.Document{{ID: "a", Name: strings.Repeat("x", 60) + ".txt"}}
		bar := renderTabBar(docs, "a", 120)
		assert.Contains(t, bar, "…")
		assert.NotContains(t, bar, ".txt")
	})
}

func TestRenderPreview(t *testing.T) {
	t.Run("word wrap", func(t *testing.T) {
		assert.Equal(t, "hello world\nfoo", RenderPreview("hello world foo", 11, true))
	})

	t.Run("long words are broken", func(t *testing.T) {
		out := RenderPreview("abcdefghij", 4, true)
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 4)
		}
		assert.Equal(t, "abcdefghij", strings.ReplaceAll(out, "\n", ""))
	})

	t.Run("no wrap truncates", func(t *testing.T) {
		out := RenderPreview("hello world foo\nshort", 8, false)
		lines := strings.Split(out, "\n")
		assert.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "…"))
		assert.LessOrEqual(t, lipgloss.Width(lines[0]), 8)
		assert.Equal(t, "short", lines[1])
	})

	t.Run("tabs expand", func(t *testing.T) {
		assert.Equal(t, "a    b", RenderPreview("a\tb", 20, false))
	})

	t.Run("zero width passes through", func(t *testing.T) {
		assert.Equal(t, "a\tb", RenderPreview("a\tb", 0, true))
	})
}

func TestPreview_SetWrap(t *testing.T) {
	p := NewPreview(true)
	p.SetSize(8, 5)
	p.SetContent("hello world foo")
	assert.Contains(t, p.View(), "world")

	p.SetWrap(false)
	assert.NotContains(t, p.View(), "world")
	assert.Contains(t, p.View(), "…")
}

func TestRenderStatusBar(t *testing.T) {
	doc := models.Document{ID: "a", Name: "main.go", Language: models.LanguageGo, Content: "package main\n"}

	bar := renderStatusBar(statusInfo{doc: &doc, line: 3, column: 5, wordWrap: true, message: "Saved main.go"}, 200)
	assert.Contains(t, bar, "main.go")
	assert.Contains(t, bar, "Go")
	assert.Contains(t, bar, "Ln 3, Col 5")
	assert.Contains(t, bar, "Preview: Wrap")
	assert.NotContains(t, bar, "Read-only")
	assert.Contains(t, bar, "2 lines")
	assert.Contains(t, bar, "Saved main.go")

	bar = renderStatusBar(statusInfo{doc: &doc, line: 1, column: 1, readOnly: true}, 200)
	assert.Contains(t, bar, "Preview: No Wrap")
	assert.Contains(t, bar, "Read-only")

	bar = renderStatusBar(statusInfo{}, 200)
	assert.Contains(t, bar, "No document open")
}

func TestKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"ctrl+s saves", tea.KeyMsg{Type: tea.KeyCtrlS}, km.Save},
		{"alt+s saves", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}, Alt: true}, km.Save},
		{"ctrl+z undoes", tea.KeyMsg{Type: tea.KeyCtrlZ}, km.Undo},
		{"f3 finds next", tea.KeyMsg{Type: tea.KeyF3}, km.FindNext},
		{"ctrl+right next tab", tea.KeyMsg{Type: tea.KeyCtrlRight}, km.NextTab},
		{"ctrl+left previous tab", tea.KeyMsg{Type: tea.KeyCtrlLeft}, km.PrevTab},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}

	assert.Equal(t, "preview wrap", km.ToggleWrap.Help().Desc, "alt+z only affects the preview")
}

func TestKeyMap_NoSharedKeys(t *testing.T) {
	km := DefaultKeyMap()
	seen := map[string]string{}
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				if other, ok := seen[k]; ok {
					t.Errorf("key %s bound to both %q and %q", k, other, b.Help().Desc)
				}
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestFormatShortcutForHelp(t *testing.T) {
	assert.Equal(t, "^s", FormatShortcutForHelp("ctrl+s"))
	assert.Equal(t, "F3", FormatShortcutForHelp("f3"))
	assert.Equal(t, "⇧tab", FormatShortcutForHelp("shift+tab"))
}

func TestRenderPreview_TabWidth(t *testing.T) {
	assert.Equal(t, "a  b", renderPreview("a\tb", 20, false, 2))
	assert.Equal(t, "a        b", renderPreview("a\tb", 20, false, 8))
}
