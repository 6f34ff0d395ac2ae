package models

// Document is a single open file (a tab) in the document set
type Document struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Language Language `json:"language" yaml:"language"`
	Content  string   `json:"content" yaml:"content"`

	// History and Future are kept for the persisted layout only. Undo and
	// redo live in the editor widget and are scoped to the active document.
	History []string `json:"history" yaml:"-"`
	Future  []string `json:"future" yaml:"-"`
}

// Clone returns a copy that shares no slices with d
func (d Document) Clone() Document {
	c := d
	c.History = append([]string{}, d.History...)
	c.Future = append([]string{}, d.Future...)
	return c
}

// Template holds the optional fields used when creating a document.
// Zero values are replaced with the defaults below.
type Template struct {
	Name     string
	Language Language
	Content  string
}

const (
	DefaultDocumentName = "untitled.txt"
	DefaultContent      = "// Welcome to tabpad\n// New file ready. Happy coding!\n"
)

// WithDefaults fills in the empty fields of t
func (t Template) WithDefaults() Template {
	if t.Name == "" {
		t.Name = DefaultDocumentName
	}
	if t.Language == "" {
		t.Language = LanguageText
	}
	return t
}
