package search

import (
	"strings"
	"unicode/utf8"
)

// Match is one literal occurrence of a query in a document
type Match struct {
	Offset int // byte offset into the content
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// FindAll returns every non-overlapping occurrence of query in content, in
// order. An empty query matches nothing.
func FindAll(content, query string) []Match {
	if query == "" {
		return nil
	}

	var matches []Match
	line, lineStart, scanned := 1, 0, 0
	for from := 0; from <= len(content)-len(query); {
		pos := strings.Index(content[from:], query)
		if pos < 0 {
			break
		}
		pos += from

		// Advance the line counter over the text between the previous match and this one
		for {
			nl := strings.IndexByte(content[scanned:pos], '\n')
			if nl < 0 {
				break
			}
			scanned += nl + 1
			line++
			lineStart = scanned
		}
		scanned = pos

		matches = append(matches, Match{
			Offset: pos,
			Line:   line,
			Column: utf8.RuneCountInString(content[lineStart:pos]) + 1,
		})
		from = pos + len(query)
	}
	return matches
}

// Count returns the number of non-overlapping occurrences of query. It agrees
// with the number of substitutions strings.ReplaceAll would make.
func Count(content, query string) int {
	if query == "" {
		return 0
	}
	return strings.Count(content, query)
}

// FindNext returns the first occurrence at or after byte offset from,
// wrapping to the start of content when there is none.
func FindNext(content, query string, from int) (Match, bool) {
	matches := FindAll(content, query)
	if len(matches) == 0 {
		return Match{}, false
	}
	for _, m := range matches {
		if m.Offset >= from {
			return m, true
		}
	}
	return matches[0], true
}

// OffsetOf converts a 1-based line and rune column to a byte offset. Out of
// range positions are clamped to the content.
func OffsetOf(content string, line, column int) int {
	offset := 0
	for l := 1; l < line; l++ {
		nl := strings.IndexByte(content[offset:], '\n')
		if nl < 0 {
			return len(content)
		}
		offset += nl + 1
	}
	for c := 1; c < column && offset < len(content); c++ {
		if content[offset] == '\n' {
			break
		}
		_, size := utf8.DecodeRuneInString(content[offset:])
		offset += size
	}
	return offset
}
