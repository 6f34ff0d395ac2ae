package tui

import (
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

// GetOS returns the current operating system type
func GetOS() OSType {
	switch runtime.GOOS {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// KeyMap holds every editor-level binding. Each binding accepts an alt+
// alternative where the ctrl+ form collides with terminal flow control or
// job control on some systems.
type KeyMap struct {
	New        key.Binding
	Open       key.Binding
	Save       key.Binding
	SaveAs     key.Binding
	Close      key.Binding
	Duplicate  key.Binding
	Rename     key.Binding
	Language   key.Binding
	Find       key.Binding
	FindNext   key.Binding
	Replace    key.Binding
	Undo       key.Binding
	Redo       key.Binding
	ToggleWrap key.Binding
	Preview    key.Binding
	Copy       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		New:        key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "new")),
		Open:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "open")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s", "alt+s"), key.WithHelp("^s", "save")),
		SaveAs:     key.NewBinding(key.WithKeys("ctrl+e", "alt+e"), key.WithHelp("^e", "save as")),
		Close:      key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("^w", "close")),
		Duplicate:  key.NewBinding(key.WithKeys("ctrl+d", "alt+d"), key.WithHelp("^d", "duplicate")),
		Rename:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "rename")),
		Language:   key.NewBinding(key.WithKeys("ctrl+l", "alt+l"), key.WithHelp("^l", "language")),
		Find:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("^f", "find")),
		FindNext:   key.NewBinding(key.WithKeys("ctrl+g", "f3"), key.WithHelp("^g", "find next")),
		Replace:    key.NewBinding(key.WithKeys("ctrl+h", "alt+h"), key.WithHelp("^h", "replace")),
		Undo:       key.NewBinding(key.WithKeys("ctrl+z", "alt+u"), key.WithHelp("^z", "undo")),
		Redo:       key.NewBinding(key.WithKeys("ctrl+y", "alt+y"), key.WithHelp("^y", "redo")),
		ToggleWrap: key.NewBinding(key.WithKeys("alt+z"), key.WithHelp("M-z", "preview wrap")),
		Preview:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("^p", "preview")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+k", "alt+k"), key.WithHelp("^k", "copy")),
		NextTab:    key.NewBinding(key.WithKeys("ctrl+right", "ctrl+pgdown", "alt+right"), key.WithHelp("^→", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("ctrl+left", "ctrl+pgup", "alt+left"), key.WithHelp("^←", "prev tab")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("^q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Find, k.Replace, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.Save, k.SaveAs, k.Close},
		{k.Duplicate, k.Rename, k.Language, k.Copy},
		{k.Find, k.FindNext, k.Replace, k.Undo, k.Redo},
		{k.NextTab, k.PrevTab, k.ToggleWrap, k.Preview, k.Quit},
	}
}

// ShortcutWarning returns a note for bindings known to be intercepted by
// the terminal on the current OS, or empty
func ShortcutWarning(shortcut string) string {
	switch GetOS() {
	case OSLinux:
		switch shortcut {
		case "^s", "ctrl+s":
			return "(may need: stty -ixon, or use M-s)"
		case "^z", "ctrl+z":
			return "(may suspend, or use M-u)"
		}
	case OSWindows:
		switch shortcut {
		case "^h", "ctrl+h":
			return "(terminal dependent, or use M-h)"
		}
	}
	return ""
}

// GetTerminalSetupMessage returns OS-specific terminal setup instructions
func GetTerminalSetupMessage() string {
	switch GetOS() {
	case OSLinux:
		return "TIP: Run 'stty -ixon' to enable Ctrl+S in your terminal"
	case OSWindows:
		return "TIP: For best experience, use Windows Terminal or PowerShell"
	default:
		return ""
	}
}

// FormatShortcutForHelp formats a key name for display in help text
func FormatShortcutForHelp(shortcut string) string {
	if GetOS() == OSMac {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")

	if strings.HasPrefix(shortcut, "f") && len(shortcut) <= 3 {
		return strings.ToUpper(shortcut)
	}
	return shortcut
}
