package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pluqqy/tabpad/pkg/models"
)

// Result is a document that satisfied a query
type Result struct {
	Document models.Document
	Index    int // position in the input slice
	Score    float64
	Matches  int      // content occurrences of the positive terms
	Excerpts []string // up to three content excerpts
}

const (
	maxExcerpts     = 3
	excerptContext  = 30
	nameMatchScore  = 10.0
	exactNameScore  = 20.0
	contentHitScore = 1.0
	maxContentScore = 10.0
)

// SearchDocuments returns the documents matching query, best first. Name and
// content terms are case-insensitive. Documents with equal scores keep their
// tab order. An empty query returns every document.
func SearchDocuments(docs []models.Document, query string) ([]Result, error) {
	q, err := NewParser().Parse(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	results := []Result{}
	for i, doc := range docs {
		if !q.matches(doc) {
			continue
		}
		result := Result{Document: doc, Index: i}
		q.score(&result)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func (q *Query) matches(doc models.Document) bool {
	if len(q.Conditions) == 0 {
		return true
	}

	result := q.Conditions[0].matches(doc)
	for i, op := range q.Logic {
		next := q.Conditions[i+1].matches(doc)
		switch op {
		case OperatorOR:
			result = result || next
		default:
			result = result && next
		}
	}
	return result
}

func (c Condition) matches(doc models.Document) bool {
	var hit bool
	value := strings.ToLower(c.Value)

	switch c.Field {
	case FieldName:
		hit = strings.Contains(strings.ToLower(doc.Name), value)
	case FieldContent:
		hit = strings.Contains(strings.ToLower(doc.Content), value)
	case FieldLanguage:
		hit = string(doc.Language) == value || strings.ToLower(doc.Language.Label()) == value
	case FieldID:
		hit = strings.HasPrefix(doc.ID, c.Value)
	default:
		hit = strings.Contains(strings.ToLower(doc.Name), value) ||
			strings.Contains(strings.ToLower(doc.Content), value)
	}

	if c.Negate {
		return !hit
	}
	return hit
}

func (q *Query) score(result *Result) {
	name := strings.ToLower(result.Document.Name)
	content := strings.ToLower(result.Document.Content)

	for _, c := range q.Conditions {
		if c.Negate || c.Value == "" {
			continue
		}
		value := strings.ToLower(c.Value)

		if c.Field == FieldAny || c.Field == FieldName {
			if name == value {
				result.Score += exactNameScore
			} else if strings.Contains(name, value) {
				result.Score += nameMatchScore
			}
		}
		if c.Field == FieldAny || c.Field == FieldContent {
			hits := strings.Count(content, value)
			result.Matches += hits
			contentScore := float64(hits) * contentHitScore
			if contentScore > maxContentScore {
				contentScore = maxContentScore
			}
			result.Score += contentScore

			if len(result.Excerpts) < maxExcerpts {
				excerpts := extractExcerpts(result.Document.Content, c.Value, maxExcerpts-len(result.Excerpts), excerptContext)
				result.Excerpts = append(result.Excerpts, excerpts...)
			}
		}
	}
}

// extractExcerpts returns up to maxExcerpts single-line snippets around
// case-insensitive occurrences of term.
func extractExcerpts(content, term string, maxExcerpts, contextChars int) []string {
	var excerpts []string
	lowerContent := strings.ToLower(content)
	lowerTerm := strings.ToLower(term)
	if lowerTerm == "" || len(lowerContent) != len(content) {
		// Lowercasing changed byte offsets, fall back to exact matching
		lowerContent, lowerTerm = content, term
	}

	index := 0
	for i := 0; i < maxExcerpts && index <= len(lowerContent); i++ {
		pos := strings.Index(lowerContent[index:], lowerTerm)
		if pos == -1 || lowerTerm == "" {
			break
		}
		pos += index

		start := pos - contextChars
		if start < 0 {
			start = 0
		}
		end := pos + len(lowerTerm) + contextChars
		if end > len(content) {
			end = len(content)
		}
		start, end = runeBoundary(content, start, false), runeBoundary(content, end, true)

		excerpt := strings.ReplaceAll(content[start:end], "\n", " ")
		if start > 0 {
			excerpt = "..." + excerpt
		}
		if end < len(content) {
			excerpt = excerpt + "..."
		}

		excerpts = append(excerpts, excerpt)
		index = pos + len(lowerTerm)
	}

	return excerpts
}

// runeBoundary moves i onto a UTF-8 rune boundary, forward or backward
func runeBoundary(s string, i int, forward bool) int {
	for i > 0 && i < len(s) && !isRuneStart(s[i]) {
		if forward {
			i++
		} else {
			i--
		}
	}
	return i
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
