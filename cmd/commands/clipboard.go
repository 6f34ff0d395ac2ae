package commands

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/utils"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// NewClipboardCommand creates the clipboard command
func NewClipboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "clipboard [ref]",
		Aliases: []string{"clip", "copy"},
		Short:   "Copy a document's content to the clipboard",
		Long: `Copy a document's content to the system clipboard, or the active
document's when no reference is given.

` + refHelp + `

Examples:
  tabpad clipboard
  tabpad clip notes.md`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    runClipboard,
	}
}

func runClipboard(cmd *cobra.Command, args []string) error {
	return withDocuments(cmd, func(c *cli.CommandContext) error {
		doc, err := resolveOrActive(c, args)
		if err != nil {
			return err
		}

		if err := writeClipboard(doc.Content); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}

		cli.PrintSuccess("%s copied to clipboard", doc.Name)
		cli.PrintInfo("Estimated tokens: %s", utils.FormatTokenCount(utils.EstimateTokens(doc.Content)))

		// Show a preview of what was copied
		lines := strings.Split(doc.Content, "\n")
		preview := lines[0]
		if len(lines) > 1 {
			preview += " ..."
		}
		cli.PrintInfo("Preview: %s", cli.TruncateString(preview, 80))
		return nil
	})
}
