package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Preview is a read-only rendering of the active document that honours the
// word wrap setting.
type Preview struct {
	viewport viewport.Model
	content  string
	wrap     bool
	tabWidth int
}

// DefaultTabWidth is the number of columns a tab expands to in the preview
const DefaultTabWidth = 4

// NewPreview creates a preview pane
func NewPreview(wordWrap bool) *Preview {
	return &Preview{
		viewport: viewport.New(40, 10),
		wrap:     wordWrap,
		tabWidth: DefaultTabWidth,
	}
}

// SetTabWidth sets how many columns a tab expands to
func (p *Preview) SetTabWidth(n int) {
	if n < 1 {
		n = DefaultTabWidth
	}
	p.tabWidth = n
	p.refresh()
}

// SetContent replaces the previewed text
func (p *Preview) SetContent(content string) {
	p.content = content
	p.refresh()
}

// SetWrap switches between wrapping and truncating long lines
func (p *Preview) SetWrap(on bool) {
	p.wrap = on
	p.refresh()
}

// SetSize resizes the pane
func (p *Preview) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
}

// ScrollToLine keeps a 1-based source line near the middle of the pane. With
// wrapping on this is approximate since source lines may span several rows.
func (p *Preview) ScrollToLine(line int) {
	p.viewport.SetYOffset(line - 1 - p.viewport.Height/2)
}

// View renders the pane
func (p *Preview) View() string {
	return p.viewport.View()
}

func (p *Preview) refresh() {
	p.viewport.SetContent(renderPreview(p.content, p.viewport.Width, p.wrap, p.tabWidth))
}

// RenderPreview lays text out for a pane width. With wrap on, lines are
// wrapped at word boundaries and overlong words are broken. With wrap off,
// lines are truncated with an ellipsis.
func RenderPreview(text string, width int, wrapLines bool) string {
	return renderPreview(text, width, wrapLines, DefaultTabWidth)
}

func renderPreview(text string, width int, wrapLines bool, tabWidth int) string {
	if width < 1 {
		return text
	}
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	if wrapLines {
		return wrap.String(wordwrap.String(text, width), width)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = truncate.StringWithTail(line, uint(width), "…")
	}
	return strings.Join(lines, "\n")
}
