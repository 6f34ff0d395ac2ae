package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/composer"
	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/utils"
)

// NewBundleCommand creates the bundle command
func NewBundleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle [ref]...",
		Short: "Combine documents into one Markdown file",
		Long: `Combine documents into a single Markdown file, grouped by language. Source
code is placed in fenced blocks, Markdown and plain text are inlined. Without
references every open document is bundled in tab order.

The bundle is written to TABPAD.md in the export directory unless --file or
--stdout is given.

` + refHelp + `

Examples:
  tabpad bundle
  tabpad bundle main.go README.md --title "Review"
  tabpad bundle --stdout | pbcopy`,
		PreRunE: requireProject,
		RunE:    runBundle,
	}

	cmd.Flags().StringP("file", "f", "", "Write the bundle to this path")
	cmd.Flags().Bool("stdout", false, "Write the bundle to stdout")
	cmd.Flags().StringP("title", "t", "", "Bundle title (default: workspace directory name)")
	cmd.MarkFlagsMutuallyExclusive("file", "stdout")

	return cmd
}

func runBundle(cmd *cobra.Command, args []string) error {
	toFile, _ := cmd.Flags().GetString("file")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	title, _ := cmd.Flags().GetString("title")

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		var docs []models.Document
		if len(args) == 0 {
			docs = c.Manager.Documents()
		}
		for _, ref := range args {
			doc, err := c.Resolve(ref)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		if title == "" {
			if abs, err := filepath.Abs(c.ProjectRoot); err == nil {
				title = filepath.Base(abs)
			}
		}

		content, err := composer.ComposeDocuments(title, docs)
		if err != nil {
			return err
		}

		if toStdout {
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		}

		if toFile == "" {
			toFile = filepath.Join(c.ExportDir(), composer.DefaultBundleFile)
		}
		if err := composer.WriteBundle(content, toFile); err != nil {
			return err
		}

		cli.PrintSuccess("Bundled %d %s into %s", len(docs), pluralize(len(docs), "document"), toFile)
		cli.PrintInfo("Estimated tokens: %s", utils.FormatTokenCount(utils.EstimateTokens(content)))
		return nil
	})
}
