package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/tabpad/pkg/models"
)

// DialogKind identifies what a dialog collects
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogRename
	DialogSaveAs
	DialogOpen
	DialogFind
	DialogReplace
	DialogLanguage
)

// Dialog is a one-line prompt shown above the status bar. Replace has two
// fields; the language picker has none and cycles the supported languages.
type Dialog struct {
	kind     DialogKind
	title    string
	inputs   []textinput.Model
	focus    int
	language int // index into models.Languages
}

// NewDialog creates an inactive dialog
func NewDialog() *Dialog {
	return &Dialog{}
}

// Open shows a text prompt. labels name the fields and values prefill them.
func (d *Dialog) Open(kind DialogKind, title string, labels []string, values []string) tea.Cmd {
	d.kind = kind
	d.title = title
	d.focus = 0
	d.inputs = make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Prompt = label + ": "
		ti.CharLimit = 1024
		if i < len(values) {
			ti.SetValue(values[i])
			ti.CursorEnd()
		}
		d.inputs[i] = ti
	}
	if len(d.inputs) == 0 {
		return nil
	}
	return d.inputs[0].Focus()
}

// OpenLanguagePicker shows the language picker positioned on current
func (d *Dialog) OpenLanguagePicker(current models.Language) {
	d.kind = DialogLanguage
	d.title = "Language"
	d.inputs = nil
	d.language = 0
	for i, info := range models.Languages {
		if info.Value == current {
			d.language = i
			break
		}
	}
}

// Kind returns the open dialog's kind, or DialogNone
func (d *Dialog) Kind() DialogKind {
	return d.kind
}

// Active reports whether a dialog is open
func (d *Dialog) Active() bool {
	return d.kind != DialogNone
}

// Close hides the dialog
func (d *Dialog) Close() {
	d.kind = DialogNone
	d.inputs = nil
}

// Values returns the field values
func (d *Dialog) Values() []string {
	values := make([]string, len(d.inputs))
	for i, in := range d.inputs {
		values[i] = in.Value()
	}
	return values
}

// Language returns the language the picker is on
func (d *Dialog) Language() models.Language {
	return models.Languages[d.language].Value
}

// Update handles a key. It returns submitted=true when enter was pressed;
// the dialog stays open so the caller can read its values. Esc closes it.
func (d *Dialog) Update(msg tea.KeyMsg) (submitted bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.Close()
		return false, nil
	case "enter":
		return true, nil
	}

	if d.kind == DialogLanguage {
		n := len(models.Languages)
		switch msg.String() {
		case "right", "down", "tab", "ctrl+l", "alt+l":
			d.language = (d.language + 1) % n
		case "left", "up", "shift+tab":
			d.language = (d.language - 1 + n) % n
		case "home":
			d.language = 0
		case "end":
			d.language = n - 1
		}
		return false, nil
	}

	switch msg.String() {
	case "tab", "down":
		if len(d.inputs) > 1 {
			return false, d.focusField((d.focus + 1) % len(d.inputs))
		}
	case "shift+tab", "up":
		if len(d.inputs) > 1 {
			return false, d.focusField((d.focus - 1 + len(d.inputs)) % len(d.inputs))
		}
	}

	if len(d.inputs) == 0 {
		return false, nil
	}
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return false, cmd
}

func (d *Dialog) focusField(i int) tea.Cmd {
	d.inputs[d.focus].Blur()
	d.focus = i
	return d.inputs[i].Focus()
}

// View renders the dialog as a bordered box of the given width
func (d *Dialog) View(width int) string {
	if !d.Active() {
		return ""
	}

	var b strings.Builder
	b.WriteString(DialogTitleStyle.Render(d.title))
	b.WriteString("\n")

	if d.kind == DialogLanguage {
		b.WriteString(d.languageStrip(width - 4))
		b.WriteString("\n")
		b.WriteString(DescriptionStyle.Render("←/→ choose • enter apply • esc cancel"))
	} else {
		for _, in := range d.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		hint := "enter confirm • esc cancel"
		if len(d.inputs) > 1 {
			hint = "tab next field • " + hint
		}
		b.WriteString(DescriptionStyle.Render(hint))
	}

	style := DialogStyle
	if width > 2 {
		style = style.Width(width - 2)
	}
	return style.Render(b.String())
}

// languageStrip renders the languages around the selection, as many as fit
func (d *Dialog) languageStrip(width int) string {
	n := len(models.Languages)
	label := func(i int) string {
		text := models.Languages[i].Label
		if i == d.language {
			return SelectedStyle.Render(fmt.Sprintf("‹ %s ›", text))
		}
		return NormalStyle.Render(text)
	}

	strip := label(d.language)
	for step := 1; step < n/2+1; step++ {
		right := label((d.language + step) % n)
		left := label((d.language - step + n) % n)
		next := left + "  " + strip + "  " + right
		if width > 0 && lipgloss.Width(next) > width {
			break
		}
		strip = next
	}
	return strip
}
