package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		query    string
		expected []Match
	}{
		{
			name:     "empty query",
			content:  "abc",
			query:    "",
			expected: nil,
		},
		{
			name:     "no match",
			content:  "abc",
			query:    "x",
			expected: nil,
		},
		{
			name:    "same line",
			content: "foo bar foo",
			query:   "foo",
			expected: []Match{
				{Offset: 0, Line: 1, Column: 1},
				{Offset: 8, Line: 1, Column: 9},
			},
		},
		{
			name:    "across lines",
			content: "a\nfoo\n\n  foo",
			query:   "foo",
			expected: []Match{
				{Offset: 2, Line: 2, Column: 1},
				{Offset: 9, Line: 4, Column: 3},
			},
		},
		{
			name:    "non-overlapping",
			content: "aaaa",
			query:   "aa",
			expected: []Match{
				{Offset: 0, Line: 1, Column: 1},
				{Offset: 2, Line: 1, Column: 3},
			},
		},
		{
			name:    "columns count runes",
			content: "héllo wörld",
			query:   "w",
			expected: []Match{
				{Offset: 7, Line: 1, Column: 7},
			},
		},
		{
			name:    "query spanning a newline",
			content: "x\ny\nx\ny",
			query:   "x\ny",
			expected: []Match{
				{Offset: 0, Line: 1, Column: 1},
				{Offset: 4, Line: 3, Column: 1},
			},
		},
		{
			name:     "case sensitive",
			content:  "Foo",
			query:    "foo",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAll(tt.content, tt.query)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, len(tt.expected), Count(tt.content, tt.query))
		})
	}
}

func TestCount_AgreesWithReplaceAll(t *testing.T) {
	inputs := [][2]string{
		{"aaaa", "aa"},
		{"a-b-c", "-"},
		{"", "x"},
		{"xxx", "xxxx"},
	}
	for _, in := range inputs {
		replaced := strings.ReplaceAll(in[0], in[1], "\x00")
		assert.Equal(t, strings.Count(replaced, "\x00"), Count(in[0], in[1]), "%q in %q", in[1], in[0])
	}
}

func TestFindNext(t *testing.T) {
	content := "one two one two"

	m, ok := FindNext(content, "two", 0)
	assert.True(t, ok)
	assert.Equal(t, 4, m.Offset)

	m, ok = FindNext(content, "two", 5)
	assert.True(t, ok)
	assert.Equal(t, 12, m.Offset)

	m, ok = FindNext(content, "two", 13)
	assert.True(t, ok)
	assert.Equal(t, 4, m.Offset, "wraps to the first match")

	_, ok = FindNext(content, "three", 0)
	assert.False(t, ok)

	_, ok = FindNext(content, "", 0)
	assert.False(t, ok)
}

func TestOffsetOf(t *testing.T) {
	content := "ab\nhéllo\n"

	tests := []struct {
		line, column int
		expected     int
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 6},
		{2, 99, 9},
		{3, 1, 10},
		{9, 1, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, OffsetOf(content, tt.line, tt.column), "line %d col %d", tt.line, tt.column)
	}

	for _, m := range FindAll(content, "llo") {
		assert.Equal(t, m.Offset, OffsetOf(content, m.Line, m.Column))
	}
}
