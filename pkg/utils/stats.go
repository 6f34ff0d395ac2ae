package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	wordPattern      = regexp.MustCompile(`\S+`)
	codeFencePattern = regexp.MustCompile("```[\\s\\S]*?```")
)

// TextStats summarizes a document's content
type TextStats struct {
	Lines  int `json:"lines" yaml:"lines"`
	Words  int `json:"words" yaml:"words"`
	Runes  int `json:"chars" yaml:"chars"`
	Bytes  int `json:"bytes" yaml:"bytes"`
	Tokens int `json:"tokens" yaml:"tokens"`
}

// Stats counts lines, words, characters, bytes and estimated tokens. An empty
// text still has one (empty) line, as an editor shows it.
func Stats(text string) TextStats {
	return TextStats{
		Lines:  strings.Count(text, "\n") + 1,
		Words:  len(strings.Fields(text)),
		Runes:  utf8.RuneCountInString(text),
		Bytes:  len(text),
		Tokens: EstimateTokens(text),
	}
}

// EstimateTokens provides a lightweight estimation of token count, averaging
// a 4-characters-per-token estimate with a 1.3-tokens-per-word estimate.
// Fenced code is denser, roughly 3 characters per token.
func EstimateTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	baseEstimate := len(text) / 4
	wordEstimate := int(float64(len(wordPattern.FindAllString(text, -1))) * 1.3)
	estimate := (baseEstimate + wordEstimate) / 2

	for _, block := range codeFencePattern.FindAllString(text, -1) {
		codeChars := len(block)
		estimate += (codeChars / 3) - (codeChars / 4)
	}

	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

// FormatCount formats n with a unit for display, abbreviating thousands
// and millions: "999 words", "1.5K words", "12K words", "3.2M words".
func FormatCount(n int, unit string) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d %s", n, unit)
	case n < 10000:
		return fmt.Sprintf("%.1fK %s", float64(n)/1000, unit)
	case n < 1000000:
		return fmt.Sprintf("%.0fK %s", float64(n)/1000, unit)
	default:
		return fmt.Sprintf("%.1fM %s", float64(n)/1000000, unit)
	}
}

// FormatTokenCount formats an estimated token count for display
func FormatTokenCount(tokens int) string {
	return "~" + FormatCount(tokens, "tokens")
}

// Summary renders stats as a compact status line
func (s TextStats) Summary() string {
	return fmt.Sprintf("%s, %s, %s",
		FormatCount(s.Lines, plural(s.Lines, "line")),
		FormatCount(s.Words, plural(s.Words, "word")),
		FormatTokenCount(s.Tokens))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
