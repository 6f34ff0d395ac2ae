package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/tabpad/pkg/models"
)

func testDocuments() []models.Document {
	return []models.Document{
		{ID: "a1", Name: "main.go", Language: models.LanguageGo, Content: "package main\n\n// TODO: wire flags\nfunc main() {}\n"},
		{ID: "b2", Name: "notes.md", Language: models.LanguageMarkdown, Content: "# Notes\n\ntodo: buy milk\nTODO: call back\n"},
		{ID: "c3", Name: "todo.txt", Language: models.LanguageText, Content: "nothing here"},
		{ID: "d4", Name: "query.sql", Language: models.LanguageSQL, Content: "select * from main;"},
	}
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Document.ID)
	}
	return ids
}

func TestSearchDocuments(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"empty query returns all in order", "", []string{"a1", "b2", "c3", "d4"}},
		{"name match outranks content", "todo", []string{"c3", "b2", "a1"}},
		{"content field only", "content:todo", []string{"b2", "a1"}},
		{"language by tag", "lang:go", []string{"a1"}},
		{"language by label", "lang:markdown", []string{"b2"}},
		{"AND", "main lang:sql", []string{"d4"}},
		{"OR", "lang:sql OR lang:text", []string{"c3", "d4"}},
		{"negation", "-content:todo", []string{"c3", "d4"}},
		{"id prefix", "id:b", []string{"b2"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := SearchDocuments(testDocuments(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resultIDs(results))
		})
	}
}

func TestSearchDocuments_ResultDetails(t *testing.T) {
	results, err := SearchDocuments(testDocuments(), "content:todo")
	require.NoError(t, err)
	require.Len(t, results, 2)

	notes := results[0]
	assert.Equal(t, 1, notes.Index)
	assert.Equal(t, 2, notes.Matches)
	require.Len(t, notes.Excerpts, 2)
	assert.Contains(t, notes.Excerpts[0], "todo: buy milk")
	assert.NotContains(t, notes.Excerpts[0], "\n")
}

func TestSearchDocuments_InvalidQuery(t *testing.T) {
	_, err := SearchDocuments(testDocuments(), "OR todo")
	assert.Error(t, err)
}

func TestExtractExcerpts(t *testing.T) {
	content := "0123456789 needle 0123456789 needle end"

	excerpts := extractExcerpts(content, "NEEDLE", 3, 5)
	require.Len(t, excerpts, 2)
	assert.Equal(t, "...6789 needle 0123...", excerpts[0])
	assert.Equal(t, "...6789 needle end", excerpts[1])

	assert.Len(t, extractExcerpts(content, "needle", 1, 5), 1)
	assert.Empty(t, extractExcerpts(content, "", 3, 5))
}

func TestExtractExcerpts_RuneBoundaries(t *testing.T) {
	excerpts := extractExcerpts("ééééé x ééééé", "x", 1, 3)
	require.Len(t, excerpts, 1)
	for _, e := range excerpts {
		assert.True(t, len(e) > 0)
		assert.NotContains(t, e, "�")
	}
}
