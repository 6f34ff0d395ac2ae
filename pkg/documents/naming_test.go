package documents

import "testing"

func TestDuplicateName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a.txt", "a copy.txt"},
		{"README", "README copy"},
		{"archive.tar.gz", "archive.tar copy.gz"},
		{"file.", "file. copy"},
		{".bashrc", " copy.bashrc"},
		{"a copy.txt", "a copy copy.txt"},
		{"", " copy"},
		{"notes.md", "notes copy.md"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DuplicateName(tt.input); got != tt.expected {
				t.Errorf("DuplicateName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEventKindString(t *testing.T) {
	if EventReplaced.String() != "replaced" {
		t.Errorf("EventReplaced.String() = %q", EventReplaced.String())
	}
	if EventKind(99).String() != "unknown" {
		t.Errorf("unknown kind should stringify as unknown")
	}
}
