package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/files"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [ref]",
		Short: "Export a document to stdout or a file",
		Long: `Export a document's content, or the active document's when no reference
is given.

By default the content is written to stdout. --file writes it to a path of
your choice. --save writes it into the configured export directory under the
document's name, and --as does the same under a new name and renames the
document, like Save As in the editor.

` + refHelp + `

Examples:
  # Export to stdout
  tabpad export notes.md

  # Export to a file
  tabpad export 2 --file /tmp/notes.md

  # Save into the export directory
  tabpad export --save

  # Save under a new name and rename the document
  tabpad export 1 --as todo.md`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    runExport,
	}

	cmd.Flags().StringP("file", "f", "", "Export to file instead of stdout")
	cmd.Flags().Bool("save", false, "Save into the export directory under the document's name")
	cmd.Flags().String("as", "", "Save into the export directory under this name and rename the document")
	cmd.MarkFlagsMutuallyExclusive("file", "save", "as")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	toFile, _ := cmd.Flags().GetString("file")
	save, _ := cmd.Flags().GetBool("save")
	saveAs, _ := cmd.Flags().GetString("as")

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		doc, err := resolveOrActive(c, args)
		if err != nil {
			return err
		}

		switch {
		case toFile != "":
			if err := files.WriteFile(toFile, doc.Content); err != nil {
				return err
			}
			cli.PrintSuccess("Exported %s to %s", doc.Name, toFile)

		case save:
			if err := c.Manager.Save(c.Ctx, doc.ID, c.Exporter()); err != nil {
				return err
			}
			cli.PrintSuccess("Saved %s", filepath.Join(c.ExportDir(), doc.Name))

		case saveAs != "":
			if err := c.Manager.SaveAs(c.Ctx, doc.ID, saveAs, c.Exporter()); err != nil {
				return err
			}
			cli.PrintSuccess("Saved %s as %s", doc.Name, filepath.Join(c.ExportDir(), saveAs))

		default:
			fmt.Fprint(cmd.OutOrStdout(), doc.Content)
		}
		return nil
	})
}
