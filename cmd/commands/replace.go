package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/search"
)

// ReplaceResult is the structured output of the replace command
type ReplaceResult struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Find         string `json:"find" yaml:"find"`
	Replacement  string `json:"replacement" yaml:"replacement"`
	Replacements int    `json:"replacements" yaml:"replacements"`
	DryRun       bool   `json:"dry_run" yaml:"dry_run"`
}

// NewReplaceCommand creates the replace command
func NewReplaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace <ref> <find> <replacement>",
		Short: "Replace every occurrence of a string in a document",
		Long: `Replace every literal, case-sensitive occurrence of <find> in a document.
Matches do not overlap and replaced text is not rescanned. An empty <find>
changes nothing.

` + refHelp + `

Examples:
  tabpad replace notes.md TODO DONE
  tabpad replace 1 "foo bar" baz --dry-run`,
		Args:    cobra.ExactArgs(3),
		PreRunE: requireProject,
		RunE:    runReplace,
	}

	cmd.Flags().Bool("dry-run", false, "Only count the occurrences")

	return cmd
}

func runReplace(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	find, replacement := args[1], args[2]

	return withDocuments(cmd, func(c *cli.CommandContext) error {
		doc, err := c.Resolve(args[0])
		if err != nil {
			return err
		}

		result := ReplaceResult{
			ID:          doc.ID,
			Name:        doc.Name,
			Find:        find,
			Replacement: replacement,
			DryRun:      dryRun,
		}
		if dryRun {
			result.Replacements = search.Count(doc.Content, find)
		} else {
			result.Replacements = c.Manager.ReplaceAll(c.Ctx, doc.ID, find, replacement)
		}

		switch format := outputFormat(cmd); format {
		case "json", "yaml":
			return cli.OutputResults(cmd.OutOrStdout(), format, result)
		}

		noun := pluralize(result.Replacements, "occurrence")
		switch {
		case result.Replacements == 0:
			cli.PrintInfo("No occurrences of %q in %s", find, doc.Name)
		case dryRun:
			cli.PrintInfo("Would replace %d %s in %s", result.Replacements, noun, doc.Name)
		default:
			cli.PrintSuccess("Replaced %d %s in %s", result.Replacements, noun, doc.Name)
		}
		return nil
	})
}
