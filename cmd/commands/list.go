package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
)

// ListResult represents the output structure for list command
type ListResult struct {
	Active    string         `json:"active" yaml:"active"`
	Count     int            `json:"count" yaml:"count"`
	Documents []DocumentInfo `json:"documents" yaml:"documents"`
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List open documents in tab order",
		Long: `List the open documents in tab order. The active document is marked
with an asterisk.

Examples:
  # List documents
  tabpad list

  # List with full ids as JSON
  tabpad list -o json`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE:    runList,
	}

	cmd.Flags().Bool("ids", false, "Show full document ids")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	showIDs, _ := cmd.Flags().GetBool("ids")

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		docs := c.Manager.Documents()
		result := ListResult{
			Active:    c.Manager.ActiveID(),
			Count:     len(docs),
			Documents: make([]DocumentInfo, 0, len(docs)),
		}
		for _, doc := range docs {
			result.Documents = append(result.Documents, newDocumentInfo(c, doc))
		}

		switch format := outputFormat(cmd); format {
		case "json", "yaml":
			return cli.OutputResults(cmd.OutOrStdout(), format, result)
		default:
			return outputListText(cmd, result, showIDs)
		}
	})
}

func outputListText(cmd *cobra.Command, result ListResult, showIDs bool) error {
	if result.Count == 0 {
		cli.PrintInfo("No documents open. Create one with 'tabpad new'")
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("", "#", "ID", "NAME", "LANGUAGE", "LINES", "SIZE")
	for _, doc := range result.Documents {
		marker := ""
		if doc.Active {
			marker = cli.Highlight("*", "34")
		}
		id := doc.ID
		if !showIDs {
			id = shortID(id)
		}
		table.Row(
			marker,
			strconv.Itoa(doc.Tab),
			id,
			cli.TruncateString(doc.Name, 40),
			doc.Language,
			strconv.Itoa(doc.Lines),
			cli.FormatBytes(int64(doc.Bytes)),
		)
	}
	table.Flush()

	if !cli.Quiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d %s\n", result.Count, pluralize(result.Count, "document"))
	}
	return nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
