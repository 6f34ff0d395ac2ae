package commands

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/utils"
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [ref]",
		Short: "Display a document's content",
		Long: `Display the content of a document, or of the active document when no
reference is given.

` + refHelp + `

Examples:
  # Show the active document
  tabpad show

  # Show tab 2 wrapped to 72 columns
  tabpad show 2 --width 72

  # Show with a header and statistics
  tabpad show notes.md --metadata

  # Output as JSON
  tabpad show notes.md -o json`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE:    runShow,
	}

	cmd.Flags().IntP("width", "W", 0, "Wrap lines at this width")
	cmd.Flags().BoolP("metadata", "m", false, "Show name, language and statistics")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	showMetadata, _ := cmd.Flags().GetBool("metadata")
	if width < 0 {
		return fmt.Errorf("invalid width: %d", width)
	}

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		doc, err := resolveOrActive(c, args)
		if err != nil {
			return err
		}

		detail := DocumentDetail{DocumentInfo: newDocumentInfo(c, doc), Content: doc.Content}
		switch format := outputFormat(cmd); format {
		case "json", "yaml":
			return cli.OutputResults(cmd.OutOrStdout(), format, detail)
		}

		out := cmd.OutOrStdout()
		if showMetadata {
			fmt.Fprintf(out, "Name:     %s\n", doc.Name)
			fmt.Fprintf(out, "ID:       %s\n", doc.ID)
			fmt.Fprintf(out, "Tab:      %d\n", detail.Tab)
			fmt.Fprintf(out, "Language: %s\n", doc.Language.Label())
			fmt.Fprintf(out, "Stats:    %s, %s\n", detail.TextStats.Summary(), utils.FormatCount(detail.Runes, "chars"))
			fmt.Fprintln(out, strings.Repeat("-", 40))
		}

		content := doc.Content
		if width > 0 {
			content = wrap.String(wordwrap.String(content, width), width)
		}
		fmt.Fprint(out, content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	})
}
