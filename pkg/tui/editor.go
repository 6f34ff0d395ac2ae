package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/tabpad/pkg/search"
)

// MaxUndoLevels bounds the per-document undo history
const MaxUndoLevels = 100

// UndoState is a saved editor state
type UndoState struct {
	Content string
	Line    int
	Column  int
}

type editKind int

const (
	editNone editKind = iota
	editInsert
	editDelete
)

// Editor adapts a textarea to a document: it loads content, reports cursor
// position and keeps an undo/redo history for the document being edited.
//
// The textarea holds at most 10,000 lines and rewrites tabs, carriage returns
// and control characters on load. A document it cannot hold unchanged is
// loaded read-only: the cursor moves but edits, undo and redo are refused.
type Editor struct {
	Textarea textarea.Model

	docID     string
	synced    string // content last exchanged with the document set
	readOnly  bool
	undoStack []UndoState
	redoStack []UndoState
	lastEdit  editKind
	lastFind  int // offset of the last FindNext match, or -1
}

// NewEditor creates an editor with line numbers and no character limit
func NewEditor() *Editor {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = " "
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "Empty document"
	ta.SetWidth(80)
	ta.SetHeight(20)
	ta.Focus()

	return &Editor{Textarea: ta, lastFind: -1}
}

// DocumentID returns the id of the loaded document
func (e *Editor) DocumentID() string {
	return e.docID
}

// Load replaces the editor content with a document. Switching to a different
// document clears the undo history. Reloading the current document with
// content the editor already produced is a no-op.
func (e *Editor) Load(docID, content string) {
	if docID != e.docID {
		e.undoStack = nil
		e.redoStack = nil
		e.lastEdit = editNone
		e.lastFind = -1
		e.docID = docID
		e.synced = content
		e.Textarea.SetValue(content)
		e.readOnly = e.Value() != content
		e.MoveTo(1, 1)
		return
	}
	if content != e.synced {
		e.SetValue(content)
	}
}

// SetValue replaces the content of the current document as one undoable
// step, keeping the cursor on the same line where possible. Leaving a
// read-only state drops the history, which holds only the altered text.
func (e *Editor) SetValue(content string) {
	e.synced = content
	if content == e.Value() && !e.readOnly {
		return
	}
	line, col := e.Cursor()
	if e.readOnly {
		e.undoStack = nil
	} else {
		e.pushUndo()
	}
	e.redoStack = nil
	e.lastEdit = editNone
	e.Textarea.SetValue(content)
	e.readOnly = e.Value() != content
	e.MoveTo(line, col)
}

// ReadOnly reports whether the loaded document could not be held unchanged
func (e *Editor) ReadOnly() bool {
	return e.readOnly
}

// Navigates reports whether a key only moves the cursor
func (e *Editor) Navigates(msg tea.KeyMsg) bool {
	km := e.Textarea.KeyMap
	return key.Matches(msg,
		km.CharacterForward, km.CharacterBackward,
		km.WordForward, km.WordBackward,
		km.LineNext, km.LinePrevious,
		km.LineStart, km.LineEnd,
		km.InputBegin, km.InputEnd,
	)
}

// Value returns the current content
func (e *Editor) Value() string {
	return e.Textarea.Value()
}

// Cursor returns the 1-based line and column of the cursor
func (e *Editor) Cursor() (int, int) {
	info := e.Textarea.LineInfo()
	return e.Textarea.Line() + 1, info.StartColumn + info.ColumnOffset + 1
}

// MoveTo places the cursor on a 1-based line and column, clamped to the content
func (e *Editor) MoveTo(line, col int) {
	lines := e.Textarea.LineCount()
	if line < 1 {
		line = 1
	}
	if line > lines {
		line = lines
	}

	// CursorUp and CursorDown move by visual row, so step until the
	// logical line is reached.
	for e.Textarea.Line()+1 > line && e.step(e.Textarea.CursorUp) {
	}
	for e.Textarea.Line()+1 < line && e.step(e.Textarea.CursorDown) {
	}
	e.Textarea.SetCursor(col - 1)
}

// step runs a cursor movement and reports whether the cursor moved
func (e *Editor) step(move func()) bool {
	row, offset := e.Textarea.Line(), e.Textarea.LineInfo().RowOffset
	move()
	return e.Textarea.Line() != row || e.Textarea.LineInfo().RowOffset != offset
}

// Update forwards a message to the textarea and records undo history. It
// reports whether the content changed. A read-only editor only receives
// cursor movement.
func (e *Editor) Update(msg tea.Msg) (bool, tea.Cmd) {
	if e.readOnly {
		if k, ok := msg.(tea.KeyMsg); ok && !e.Navigates(k) {
			return false, nil
		}
		var cmd tea.Cmd
		e.Textarea, cmd = e.Textarea.Update(msg)
		return false, cmd
	}

	before := e.Value()
	line, col := e.Cursor()

	var cmd tea.Cmd
	e.Textarea, cmd = e.Textarea.Update(msg)

	after := e.Value()
	if after == before {
		return false, cmd
	}

	kind := editInsert
	if len(after) < len(before) {
		kind = editDelete
	}
	if e.startsUndoGroup(before, after, kind, msg) {
		e.undoStack = append(e.undoStack, UndoState{Content: before, Line: line, Column: col})
		e.trimUndo()
	}
	e.redoStack = nil
	e.lastEdit = kind
	e.synced = after
	return true, cmd
}

// startsUndoGroup decides whether an edit begins a new undo step. Typing is
// grouped by word; line changes, pastes and switching between inserting and
// deleting always start a new step.
func (e *Editor) startsUndoGroup(before, after string, kind editKind, msg tea.Msg) bool {
	if len(e.undoStack) == 0 || kind != e.lastEdit {
		return true
	}
	if strings.Count(before, "\n") != strings.Count(after, "\n") {
		return true
	}
	diff := len(after) - len(before)
	if diff > 4 || diff < -4 {
		return true
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeySpace {
		return true
	}
	return false
}

// Undo restores the previous state. It reports whether anything changed.
func (e *Editor) Undo() bool {
	if e.readOnly || len(e.undoStack) == 0 {
		return false
	}
	line, col := e.Cursor()
	e.redoStack = append(e.redoStack, UndoState{Content: e.Value(), Line: line, Column: col})

	state := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.restore(state)
	return true
}

// Redo reapplies the last undone state. It reports whether anything changed.
func (e *Editor) Redo() bool {
	if e.readOnly || len(e.redoStack) == 0 {
		return false
	}
	line, col := e.Cursor()
	e.undoStack = append(e.undoStack, UndoState{Content: e.Value(), Line: line, Column: col})

	state := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.restore(state)
	return true
}

// CanUndo reports whether there is history to undo
func (e *Editor) CanUndo() bool {
	return !e.readOnly && len(e.undoStack) > 0
}

// CanRedo reports whether there is history to redo
func (e *Editor) CanRedo() bool {
	return !e.readOnly && len(e.redoStack) > 0
}

// FindNext moves the cursor to the next occurrence of query after the
// cursor, wrapping around. It returns the match and its 1-based ordinal
// among all matches, and false when there are none.
func (e *Editor) FindNext(query string) (search.Match, int, bool) {
	content := e.Value()
	line, col := e.Cursor()
	from := search.OffsetOf(content, line, col)
	if from == e.lastFind {
		from++
	}

	matches := search.FindAll(content, query)
	if len(matches) == 0 {
		return search.Match{}, 0, false
	}

	ordinal := 1
	match := matches[0]
	for i, m := range matches {
		if m.Offset >= from {
			match, ordinal = m, i+1
			break
		}
	}
	e.MoveTo(match.Line, match.Column)
	e.lastFind = match.Offset
	return match, ordinal, true
}

// SetSize resizes the textarea
func (e *Editor) SetSize(width, height int) {
	e.Textarea.SetWidth(width)
	e.Textarea.SetHeight(height)
}

// View renders the textarea
func (e *Editor) View() string {
	return e.Textarea.View()
}

func (e *Editor) pushUndo() {
	line, col := e.Cursor()
	e.undoStack = append(e.undoStack, UndoState{Content: e.Value(), Line: line, Column: col})
	e.trimUndo()
}

func (e *Editor) trimUndo() {
	if len(e.undoStack) > MaxUndoLevels {
		e.undoStack = e.undoStack[len(e.undoStack)-MaxUndoLevels:]
	}
}

func (e *Editor) restore(state UndoState) {
	e.Textarea.SetValue(state.Content)
	e.synced = e.Value()
	e.MoveTo(state.Line, state.Column)
	e.lastEdit = editNone
}
