// Package examples holds starter documents that 'tabpad new --example' and
// 'tabpad examples' offer.
package examples

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pluqqy/tabpad/pkg/models"
)

// Example is a named starter document
type Example struct {
	Key         string
	Category    string
	Description string
	Template    models.Template
}

// Categories in listing order
var Categories = []string{"general", "web", "code"}

// GetExamples returns the examples of category, or every example for "all"
func GetExamples(category string) []Example {
	switch category {
	case "general":
		return generalExamples()
	case "web":
		return webExamples()
	case "code":
		return codeExamples()
	case "all", "":
		var all []Example
		all = append(all, generalExamples()...)
		all = append(all, webExamples()...)
		all = append(all, codeExamples()...)
		return all
	default:
		return []Example{}
	}
}

// Lookup finds an example by key, case-insensitively
func Lookup(key string) (Example, error) {
	for _, ex := range GetExamples("all") {
		if strings.EqualFold(ex.Key, key) {
			return ex, nil
		}
	}

	var keys []string
	for _, ex := range GetExamples("all") {
		keys = append(keys, ex.Key)
	}
	sort.Strings(keys)
	return Example{}, fmt.Errorf("unknown example %q (available: %s)", key, strings.Join(keys, ", "))
}

func generalExamples() []Example {
	return []Example{
		{
			Key:         "readme",
			Category:    "general",
			Description: "Project README outline",
			Template: models.Template{
				Name:     "README.md",
				Language: models.LanguageMarkdown,
				Content: `# Project Name

One paragraph describing what the project does.

## Installation

## Usage

## License
`,
			},
		},
		{
			Key:         "todo",
			Category:    "general",
			Description: "Task checklist",
			Template: models.Template{
				Name:     "todo.md",
				Language: models.LanguageMarkdown,
				Content: `# TODO

- [ ]
- [ ]

## Done

- [x] Create the list
`,
			},
		},
		{
			Key:         "meeting",
			Category:    "general",
			Description: "Meeting notes",
			Template: models.Template{
				Name:     "meeting-notes.md",
				Language: models.LanguageMarkdown,
				Content: `# Meeting Notes

**Date:**
**Attendees:**

## Agenda

## Decisions

## Action Items
`,
			},
		},
	}
}

func webExamples() []Example {
	return []Example{
		{
			Key:         "html",
			Category:    "web",
			Description: "Minimal HTML5 page",
			Template: models.Template{
				Name:     "index.html",
				Language: models.LanguageHTML,
				Content: `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Page</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
</body>
</html>
`,
			},
		},
		{
			Key:         "css",
			Category:    "web",
			Description: "Stylesheet with a small reset",
			Template: models.Template{
				Name:     "style.css",
				Language: models.LanguageCSS,
				Content: `*, *::before, *::after {
  box-sizing: border-box;
}

body {
  margin: 0;
  font-family: system-ui, sans-serif;
  line-height: 1.5;
}
`,
			},
		},
	}
}

func codeExamples() []Example {
	return []Example{
		{
			Key:         "go",
			Category:    "code",
			Description: "Go main package",
			Template: models.Template{
				Name:     "main.go",
				Language: models.LanguageGo,
				Content: `package main

import "fmt"

func main() {
	fmt.Println("hello")
}
`,
			},
		},
		{
			Key:         "python",
			Category:    "code",
			Description: "Python script with a main guard",
			Template: models.Template{
				Name:     "main.py",
				Language: models.LanguagePython,
				Content: `def main():
    print("hello")


if __name__ == "__main__":
    main()
`,
			},
		},
		{
			Key:         "sql",
			Category:    "code",
			Description: "Table definition and query",
			Template: models.Template{
				Name:     "schema.sql",
				Language: models.LanguageSQL,
				Content: `CREATE TABLE items (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

SELECT id, name FROM items ORDER BY name;
`,
			},
		},
	}
}
