package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/examples"
	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/models"
)

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a document and make it active",
		Long: `Create a new document at the end of the tab list and make it active.
Without a name the document is called untitled.txt. The language is inferred
from the name's extension unless --language is given.

Examples:
  # New empty document
  tabpad new

  # New document with content
  tabpad new notes.md --content "# Notes"

  # New document from a pipe
  git log -1 | tabpad new commit.txt --stdin

  # New document from a starter example (see 'tabpad examples')
  tabpad new --example readme`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    runNew,
	}

	cmd.Flags().StringP("language", "l", "", "Document language (see 'tabpad languages')")
	cmd.Flags().StringP("content", "c", "", "Initial content")
	cmd.Flags().Bool("stdin", false, "Read initial content from standard input")
	cmd.Flags().Bool("welcome", false, "Start with the welcome text")
	cmd.Flags().StringP("example", "e", "", "Start from a starter example")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	tmpl := models.Template{}
	if key, _ := cmd.Flags().GetString("example"); key != "" {
		ex, err := examples.Lookup(key)
		if err != nil {
			return err
		}
		tmpl = ex.Template
	}
	if len(args) > 0 {
		if err := cli.ValidateDocumentName(args[0]); err != nil {
			return err
		}
		tmpl.Name = args[0]
		if tmpl.Language == "" {
			tmpl.Language = models.LanguageForName(args[0])
		}
	}

	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		parsed, err := cli.ValidateLanguage(lang)
		if err != nil {
			return err
		}
		tmpl.Language = parsed
	}

	if content, _ := cmd.Flags().GetString("content"); content != "" {
		tmpl.Content = content
	}
	if fromStdin, _ := cmd.Flags().GetBool("stdin"); fromStdin {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), files.MaxSourceSize+1))
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		if len(data) > files.MaxSourceSize {
			return files.ErrSourceTooLarge
		}
		tmpl.Content = files.NormalizeLineEndings(string(data))
	}
	if welcome, _ := cmd.Flags().GetBool("welcome"); welcome && tmpl.Content == "" {
		tmpl.Content = models.DefaultContent
	}

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		doc := c.Manager.Create(c.Ctx, tmpl)
		return outputMutation(cmd, c, doc, "Created %s (%s)", doc.Name, shortID(doc.ID))
	})
}

// NewOpenCommand creates the open command
func NewOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>...",
		Short: "Open text files as new documents",
		Long: `Read local text files into new documents. Each file becomes a tab named
after the file, with the language inferred from its extension. The last one
opened becomes active. The files themselves are not modified.

Examples:
  tabpad open main.go README.md`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			type source struct{ name, content string }
			sources := make([]source, 0, len(args))
			for _, path := range args {
				if err := cli.ValidateFilePath(path); err != nil {
					return err
				}
				name, content, err := files.ReadSource(path)
				if err != nil {
					return err
				}
				sources = append(sources, source{name, content})
			}

			return withDocuments(cmd, func(c *cli.CommandContext) error {
				for i, src := range sources {
					doc := c.Manager.Open(c.Ctx, src.name, src.content)
					if i == len(sources)-1 {
						return outputMutation(cmd, c, doc, "Opened %s as %s (%s)", doc.Name, doc.Language.Label(), shortID(doc.ID))
					}
					cli.PrintSuccess("Opened %s as %s (%s)", doc.Name, doc.Language.Label(), shortID(doc.ID))
				}
				return nil
			})
		},
	}
}
