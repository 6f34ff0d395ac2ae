package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/models"
)

// NewCloseCommand creates the close command
func NewCloseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "close <ref>...",
		Aliases: []string{"rm", "delete"},
		Short:   "Close documents and discard their content",
		Long: `Close one or more documents. Their content is discarded, so export it first
if you want to keep it. Documents with content ask for confirmation unless
--yes is given. When the active document is closed the next tab becomes
active, or the previous one when it was last.

` + refHelp + `

Examples:
  tabpad close 3
  tabpad rm scratch.txt notes.md --yes
  tabpad close --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all, _ := cmd.Flags().GetBool("all"); all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		PreRunE: requireProject,
		RunE:    runClose,
	}

	cmd.Flags().Bool("all", false, "Close every document")

	return cmd
}

func runClose(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		// Resolve every reference first, tab numbers shift as documents close
		var targets []models.Document
		if all {
			targets = c.Manager.Documents()
		}
		seen := map[string]bool{}
		for _, ref := range args {
			doc, err := c.Resolve(ref)
			if err != nil {
				return err
			}
			if !seen[doc.ID] {
				seen[doc.ID] = true
				targets = append(targets, doc)
			}
		}

		var nonEmpty []string
		for _, doc := range targets {
			if doc.Content != "" {
				nonEmpty = append(nonEmpty, doc.Name)
			}
		}
		if len(nonEmpty) > 0 {
			ok, err := cli.Confirm(fmt.Sprintf("Discard the content of %s?", strings.Join(nonEmpty, ", ")), false)
			if err != nil {
				return err
			}
			if !ok {
				cli.PrintInfo("Cancelled")
				return nil
			}
		}

		for _, doc := range targets {
			c.Manager.Delete(c.Ctx, doc.ID)
			cli.PrintSuccess("Closed %s", doc.Name)
		}
		if c.Manager.Len() == 0 {
			cli.PrintInfo("No documents left open")
		}
		return nil
	})
}
