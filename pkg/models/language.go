package models

import (
	"errors"
	"fmt"
	"strings"
)

// Language errors
var (
	ErrInvalidLanguage = errors.New("invalid language")
)

// Language selects the highlighting mode of the editor widget
type Language string

const (
	LanguageText       Language = "text"
	LanguageMarkdown   Language = "markdown"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageJSON       Language = "json"
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageCSharp     Language = "csharp"
	LanguageCPP        Language = "cpp"
	LanguageRuby       Language = "ruby"
	LanguagePHP        Language = "php"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
	LanguageSwift      Language = "swift"
	LanguageKotlin     Language = "kotlin"
	LanguageSQL        Language = "sql"
	LanguageXML        Language = "xml"
	LanguageYAML       Language = "yaml"
)

// LanguageInfo pairs a language tag with its display label
type LanguageInfo struct {
	Value Language `json:"value" yaml:"value"`
	Label string   `json:"label" yaml:"label"`
}

// Languages is the closed set of supported languages in menu order
var Languages = []LanguageInfo{
	{LanguageText, "Plain Text"},
	{LanguageMarkdown, "Markdown"},
	{LanguageJavaScript, "JavaScript"},
	{LanguageTypeScript, "TypeScript"},
	{LanguageJSON, "JSON"},
	{LanguageHTML, "HTML"},
	{LanguageCSS, "CSS"},
	{LanguagePython, "Python"},
	{LanguageJava, "Java"},
	{LanguageCSharp, "C#"},
	{LanguageCPP, "C++"},
	{LanguageRuby, "Ruby"},
	{LanguagePHP, "PHP"},
	{LanguageGo, "Go"},
	{LanguageRust, "Rust"},
	{LanguageSwift, "Swift"},
	{LanguageKotlin, "Kotlin"},
	{LanguageSQL, "SQL"},
	{LanguageXML, "XML"},
	{LanguageYAML, "YAML"},
}

var extensionLanguages = map[string]Language{
	"md":    LanguageMarkdown,
	"js":    LanguageJavaScript,
	"ts":    LanguageTypeScript,
	"json":  LanguageJSON,
	"html":  LanguageHTML,
	"css":   LanguageCSS,
	"sql":   LanguageSQL,
	"py":    LanguagePython,
	"java":  LanguageJava,
	"cs":    LanguageCSharp,
	"cpp":   LanguageCPP,
	"cxx":   LanguageCPP,
	"cc":    LanguageCPP,
	"rb":    LanguageRuby,
	"php":   LanguagePHP,
	"go":    LanguageGo,
	"rs":    LanguageRust,
	"swift": LanguageSwift,
	"kt":    LanguageKotlin,
}

// Valid reports whether l is one of the supported languages
func (l Language) Valid() bool {
	for _, info := range Languages {
		if info.Value == l {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw tag for unknown values
func (l Language) Label() string {
	for _, info := range Languages {
		if info.Value == l {
			return info.Label
		}
	}
	return string(l)
}

// ParseLanguage validates s against the supported set
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.TrimSpace(s))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
	return l, nil
}

// LanguageForName infers a language from the extension of a file name.
// Unknown or missing extensions map to plain text.
func LanguageForName(name string) Language {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return LanguageText
	}
	if lang, ok := extensionLanguages[strings.ToLower(name[idx+1:])]; ok {
		return lang
	}
	return LanguageText
}

// NextLanguage returns the language after l in menu order, wrapping around
func NextLanguage(l Language) Language {
	for i, info := range Languages {
		if info.Value == l {
			return Languages[(i+1)%len(Languages)].Value
		}
	}
	return LanguageText
}
