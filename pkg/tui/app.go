package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/pluqqy/tabpad/internal/logging"
	"github.com/pluqqy/tabpad/pkg/documents"
	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/search"
	"github.com/pluqqy/tabpad/pkg/utils"
)

// StatusTimeout is how long a transient status message stays visible
const StatusTimeout = 4 * time.Second

const (
	readOnlyReason = "the editor cannot hold it unchanged, use the tabpad CLI to edit it"
	readOnlyNotice = "Read-only: " + readOnlyReason
)

// Messages for communication with the app
type (
	// StatusMsg shows a transient message in the status bar
	StatusMsg string
	// ErrorStatusMsg shows a transient error in the status bar
	ErrorStatusMsg string

	clearStatusMsg  struct{ seq int }
	persistErrorMsg struct{ err error }
)

// Options configures the app
type Options struct {
	// Exporter receives Save and Save As. Defaults to the working directory.
	Exporter documents.Exporter
	WordWrap bool
	TabWidth int
	// PersistErrors delivers failed background writes, see PersistErrorSink
	PersistErrors <-chan error
	Clipboard     func(string) error
	ReadSource    func(path string) (name, content string, err error)
}

// PersistErrorSink adapts a channel to documents.WithPersistErrorHandler.
// Errors are dropped when the channel is full.
func PersistErrorSink(ch chan<- error) func(error) {
	return func(err error) {
		select {
		case ch <- err:
		default:
		}
	}
}

// App is the tabbed editor
type App struct {
	ctx     context.Context
	manager *documents.Manager
	logger  *zerolog.Logger

	exporter      documents.Exporter
	persistErrors <-chan error
	clipboard     func(string) error
	readSource    func(string) (string, string, error)

	keys    KeyMap
	help    help.Model
	editor  *Editor
	preview *Preview
	dialog  *Dialog
	confirm *ConfirmationModel

	wordWrap    bool
	showPreview bool
	lastFind    string
	lastReplace string

	width  int
	height int

	statusMsg string
	statusErr bool
	statusSeq int

	unsubscribe func()
	quitting    bool
}

// NewApp creates the app over manager and subscribes to its changes
func NewApp(ctx context.Context, manager *documents.Manager, opts Options) *App {
	ctx = logging.WithComponent(ctx, "tui")

	a := &App{
		ctx:           ctx,
		manager:       manager,
		logger:        logging.FromContext(ctx),
		exporter:      opts.Exporter,
		persistErrors: opts.PersistErrors,
		clipboard:     opts.Clipboard,
		readSource:    opts.ReadSource,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		editor:        NewEditor(),
		preview:       NewPreview(opts.WordWrap),
		dialog:        NewDialog(),
		confirm:       NewConfirmation(),
		wordWrap:      opts.WordWrap,
	}
	if a.exporter == nil {
		a.exporter = files.NewDirExporter(".")
	}
	if a.clipboard == nil {
		a.clipboard = clipboard.WriteAll
	}
	if a.readSource == nil {
		a.readSource = files.ReadSource
	}

	if opts.TabWidth > 0 {
		a.preview.SetTabWidth(opts.TabWidth)
	}

	a.unsubscribe = manager.Subscribe(a.onChange)
	if doc, ok := manager.Active(); ok {
		a.editor.Load(doc.ID, doc.Content)
		a.preview.SetContent(doc.Content)
		if a.editor.ReadOnly() {
			a.statusMsg = readOnlyNotice
		}
	}
	if err := manager.LoadError(); err != nil {
		a.statusMsg = "Could not restore saved documents: " + err.Error()
		a.statusErr = true
	}

	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, a.waitForPersistError()}
	if a.statusMsg != "" {
		cmds = append(cmds, a.clearStatusAfter())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case StatusMsg:
		return a, a.setStatus(string(msg), false)

	case ErrorStatusMsg:
		return a, a.setStatus(string(msg), true)

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusMsg = ""
			a.statusErr = false
		}
		return a, nil

	case persistErrorMsg:
		a.logger.Error().Err(msg.err).Msg("autosave failed")
		return a, tea.Batch(
			a.setStatus("Autosave failed: "+msg.err.Error(), true),
			a.waitForPersistError(),
		)
	}

	// Cursor blink and other widget messages
	if a.dialog.Active() {
		return a, nil
	}
	_, cmd := a.editor.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirm.Active() {
		return a, a.confirm.Update(msg)
	}
	if a.dialog.Active() {
		return a.handleDialogKey(msg)
	}

	doc, hasDoc := a.manager.Active()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()

	case key.Matches(msg, a.keys.New):
		created := a.manager.Create(a.ctx, models.Template{})
		return a, a.setStatus("Created "+created.Name, false)

	case key.Matches(msg, a.keys.Open):
		return a, a.dialog.Open(DialogOpen, "Open file", []string{"Path"}, nil)

	case key.Matches(msg, a.keys.NextTab):
		a.manager.NextTab(a.ctx)
		return a, nil

	case key.Matches(msg, a.keys.PrevTab):
		a.manager.PrevTab(a.ctx)
		return a, nil

	case key.Matches(msg, a.keys.ToggleWrap):
		a.wordWrap = !a.wordWrap
		a.preview.SetWrap(a.wordWrap)
		return a, a.setStatus("Preview wrap "+onOff(a.wordWrap), false)

	case key.Matches(msg, a.keys.Preview):
		a.showPreview = !a.showPreview
		return a, nil

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}

	if !hasDoc {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Save):
		return a, a.save(doc, "")

	case key.Matches(msg, a.keys.SaveAs):
		return a, a.dialog.Open(DialogSaveAs, "Save as", []string{"Name"}, []string{doc.Name})

	case key.Matches(msg, a.keys.Close):
		return a, a.closeDocument(doc)

	case key.Matches(msg, a.keys.Duplicate):
		dup, ok := a.manager.Duplicate(a.ctx, doc.ID)
		if !ok {
			return a, nil
		}
		return a, a.setStatus("Duplicated as "+dup.Name, false)

	case key.Matches(msg, a.keys.Rename):
		return a, a.dialog.Open(DialogRename, "Rename", []string{"Name"}, []string{doc.Name})

	case key.Matches(msg, a.keys.Language):
		a.dialog.OpenLanguagePicker(doc.Language)
		return a, nil

	case key.Matches(msg, a.keys.Find):
		return a, a.dialog.Open(DialogFind, "Find", []string{"Find"}, []string{a.lastFind})

	case key.Matches(msg, a.keys.FindNext):
		if a.lastFind == "" {
			return a, a.dialog.Open(DialogFind, "Find", []string{"Find"}, nil)
		}
		return a, a.findNext()

	case key.Matches(msg, a.keys.Replace):
		return a, a.dialog.Open(DialogReplace, "Replace all",
			[]string{"Find", "Replace with"}, []string{a.lastFind, a.lastReplace})

	case key.Matches(msg, a.keys.Undo):
		if a.editor.Undo() {
			a.commitEditor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Redo):
		if a.editor.Redo() {
			a.commitEditor()
		}
		return a, nil

	case key.Matches(msg, a.keys.Copy):
		return a, a.copyToClipboard(doc)
	}

	if a.editor.ReadOnly() && !a.editor.Navigates(msg) {
		return a, a.setStatus(readOnlyNotice, true)
	}
	changed, cmd := a.editor.Update(msg)
	if changed {
		a.commitEditor()
	}
	return a, cmd
}

func (a *App) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submitted, cmd := a.dialog.Update(msg)
	if !submitted {
		return a, cmd
	}

	kind := a.dialog.Kind()
	values := a.dialog.Values()
	language := a.dialog.Language()
	a.dialog.Close()

	if kind == DialogOpen {
		return a, a.openFile(strings.TrimSpace(values[0]))
	}

	doc, ok := a.manager.Active()
	if !ok {
		return a, nil
	}

	switch kind {
	case DialogRename:
		name := strings.TrimSpace(values[0])
		if name == "" || name == doc.Name {
			return a, nil
		}
		a.manager.Rename(a.ctx, doc.ID, name)
		return a, a.setStatus(fmt.Sprintf("Renamed %s to %s", doc.Name, name), false)

	case DialogSaveAs:
		return a, a.save(doc, strings.TrimSpace(values[0]))

	case DialogFind:
		a.lastFind = values[0]
		return a, a.findNext()

	case DialogReplace:
		a.lastFind, a.lastReplace = values[0], values[1]
		if a.lastFind == "" {
			return a, nil
		}
		n := a.manager.ReplaceAll(a.ctx, doc.ID, a.lastFind, a.lastReplace)
		if n == 0 {
			return a, a.setStatus(fmt.Sprintf("No matches for %q", a.lastFind), false)
		}
		return a, a.setStatus(fmt.Sprintf("Replaced %d %s", n, plural(n, "occurrence")), false)

	case DialogLanguage:
		if err := a.manager.SetLanguage(a.ctx, doc.ID, language); err != nil {
			return a, a.setStatus(err.Error(), true)
		}
		return a, a.setStatus("Language set to "+language.Label(), false)
	}

	return a, nil
}

func (a *App) openFile(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	name, content, err := a.readSource(path)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("open failed")
		return a.setStatus(err.Error(), true)
	}
	doc := a.manager.Open(a.ctx, name, content)
	if a.editor.ReadOnly() {
		return a.setStatus(fmt.Sprintf("Opened %s read-only: %s", doc.Name, readOnlyReason), false)
	}
	return a.setStatus(fmt.Sprintf("Opened %s (%s)", doc.Name, doc.Language.Label()), false)
}

func (a *App) save(doc models.Document, name string) tea.Cmd {
	var err error
	if name == "" {
		err = a.manager.Save(a.ctx, doc.ID, a.exporter)
		name = doc.Name
	} else {
		err = a.manager.SaveAs(a.ctx, doc.ID, name, a.exporter)
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("name", name).Msg("export failed")
		return a.setStatus("Save failed: "+err.Error(), true)
	}

	target := name
	if dir, ok := a.exporter.(*files.DirExporter); ok {
		target = filepath.Join(dir.Dir, name)
	}
	return a.setStatus("Saved "+target, false)
}

func (a *App) closeDocument(doc models.Document) tea.Cmd {
	closeIt := func() tea.Cmd {
		a.manager.Delete(a.ctx, doc.ID)
		return a.setStatus("Closed "+doc.Name, false)
	}
	if doc.Content == "" {
		return closeIt()
	}
	a.confirm.Show(fmt.Sprintf("Close %s? Its content will be discarded.", doc.Name), true, closeIt, nil)
	return nil
}

func (a *App) findNext() tea.Cmd {
	if a.lastFind == "" {
		return nil
	}
	match, ordinal, ok := a.editor.FindNext(a.lastFind)
	if !ok {
		return a.setStatus(fmt.Sprintf("No matches for %q", a.lastFind), false)
	}
	total := search.Count(a.editor.Value(), a.lastFind)
	a.preview.ScrollToLine(match.Line)
	return a.setStatus(fmt.Sprintf("Match %d of %d (Ln %d, Col %d)", ordinal, total, match.Line, match.Column), false)
}

func (a *App) copyToClipboard(doc models.Document) tea.Cmd {
	if err := a.clipboard(doc.Content); err != nil {
		a.logger.Warn().Err(err).Msg("clipboard write failed")
		return a.setStatus("Copy failed: "+err.Error(), true)
	}
	lines := utils.Stats(doc.Content).Lines
	return a.setStatus(fmt.Sprintf("Copied %s to clipboard", utils.FormatCount(lines, plural(lines, "line"))), false)
}

// commitEditor pushes the widget content into the document set. A read-only
// editor holds altered text and is never committed.
func (a *App) commitEditor() {
	if a.editor.ReadOnly() {
		return
	}
	if id := a.editor.DocumentID(); id != "" {
		a.manager.UpdateContent(a.ctx, id, a.editor.Value())
	}
}

// onChange keeps the widgets in step with the document set
func (a *App) onChange(ev documents.ChangeEvent) {
	if ev.Active == nil {
		a.editor.Load("", "")
		a.preview.SetContent("")
		return
	}
	if ev.RefreshEditor() {
		a.editor.Load(ev.Active.ID, ev.Active.Content)
	}
	a.preview.SetContent(ev.Active.Content)
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	if err := a.manager.Close(a.ctx); err != nil {
		a.logger.Error().Err(err).Msg("final save failed")
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	return tea.Quit
}

func (a *App) setStatus(message string, isError bool) tea.Cmd {
	a.statusMsg = message
	a.statusErr = isError
	a.statusSeq++
	return a.clearStatusAfter()
}

func (a *App) clearStatusAfter() tea.Cmd {
	seq := a.statusSeq
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (a *App) waitForPersistError() tea.Cmd {
	if a.persistErrors == nil {
		return nil
	}
	ch := a.persistErrors
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return persistErrorMsg{err: err}
	}
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	doc, hasDoc := a.manager.Active()

	tabBar := renderTabBar(a.manager.Documents(), a.manager.ActiveID(), a.width)

	var bottom []string
	if a.confirm.Active() {
		bottom = append(bottom, a.confirm.View(a.width))
	}
	if a.dialog.Active() {
		bottom = append(bottom, a.dialog.View(a.width))
	}
	helpView := a.help.View(a.keys)
	if a.help.ShowAll {
		helpView = lipgloss.JoinVertical(lipgloss.Left, helpView, a.shortcutNotes())
	}
	bottom = append(bottom, helpView)

	info := statusInfo{wordWrap: a.wordWrap, readOnly: a.editor.ReadOnly(), message: a.statusMsg, isError: a.statusErr}
	if hasDoc {
		info.doc = &doc
		info.line, info.column = a.editor.Cursor()
	}
	bottom = append(bottom, renderStatusBar(info, a.width))
	footer := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	bodyHeight := a.height - lipgloss.Height(tabBar) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, a.renderBody(bodyHeight), footer)
}

func (a *App) renderBody(height int) string {
	inner := height - 2 // border

	if !a.showPreview {
		a.editor.SetSize(a.width-2, inner)
		return GetActiveBorderStyle(true).Width(a.width - 2).Render(a.editor.View())
	}

	editorWidth := a.width / 2
	previewWidth := a.width - editorWidth
	a.editor.SetSize(editorWidth-2, inner)
	a.preview.SetSize(previewWidth-2, inner-1)
	line, _ := a.editor.Cursor()
	a.preview.ScrollToLine(line)

	editorPane := GetActiveBorderStyle(true).Width(editorWidth - 2).Render(a.editor.View())
	previewPane := GetActiveBorderStyle(false).Width(previewWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			PreviewHeaderStyle.Render("Preview ("+wrapLabel(a.wordWrap)+")"),
			a.preview.View()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, editorPane, previewPane)
}

// shortcutNotes lists terminal caveats for the current OS under the full help
func (a *App) shortcutNotes() string {
	var notes []string
	for _, b := range []key.Binding{a.keys.Save, a.keys.Undo, a.keys.Replace} {
		shortcut := b.Keys()[0]
		if warning := ShortcutWarning(shortcut); warning != "" {
			notes = append(notes, FormatShortcutForHelp(shortcut)+" "+warning)
		}
	}
	if tip := GetTerminalSetupMessage(); tip != "" {
		notes = append(notes, tip)
	}
	return DescriptionStyle.Render(strings.Join(notes, "\n"))
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
