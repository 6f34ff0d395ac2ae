// Package composer bundles several documents into one Markdown file.
package composer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/models"
)

// ErrNothingToCompose is returned for an empty selection
var ErrNothingToCompose = errors.New("no documents to bundle")

// DefaultBundleFile is used when no output path is given
const DefaultBundleFile = "TABPAD.md"

// ComposeDocuments renders docs as a Markdown bundle titled title. Documents
// are grouped by language in order of first appearance, each group under its
// own heading. Within a group the tab order is kept. Source code is fenced,
// Markdown and plain text are inlined.
func ComposeDocuments(title string, docs []models.Document) (string, error) {
	if len(docs) == 0 {
		return "", ErrNothingToCompose
	}

	groups := make(map[models.Language][]models.Document)
	var order []models.Language
	for _, doc := range docs {
		if _, seen := groups[doc.Language]; !seen {
			order = append(order, doc.Language)
		}
		groups[doc.Language] = append(groups[doc.Language], doc)
	}

	var output strings.Builder
	if title == "" {
		title = "Bundle"
	}
	fmt.Fprintf(&output, "# %s\n\n", title)

	for _, lang := range order {
		group := groups[lang]
		fmt.Fprintf(&output, "## %s\n\n", lang.Label())

		for i, doc := range group {
			fmt.Fprintf(&output, "<!-- %s -->\n", doc.Name)
			writeContent(&output, doc)

			if i < len(group)-1 {
				output.WriteString("\n---\n\n")
			}
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func writeContent(w *strings.Builder, doc models.Document) {
	content := strings.TrimSpace(doc.Content)

	switch doc.Language {
	case models.LanguageText, models.LanguageMarkdown:
		w.WriteString(content)
		w.WriteString("\n")
	default:
		fence := fenceFor(content)
		fmt.Fprintf(w, "%s%s\n%s\n%s\n", fence, doc.Language, content, fence)
	}
}

// fenceFor returns a backtick fence longer than any run inside content
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// WriteBundle writes a composed bundle to outputPath, or DefaultBundleFile
func WriteBundle(content string, outputPath string) error {
	if outputPath == "" {
		outputPath = DefaultBundleFile
	}

	if err := files.WriteFile(outputPath, content); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	return nil
}
