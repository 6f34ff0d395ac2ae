package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
)

const refHelp = `A document can be referred to by its id, a unique id prefix, its name, or
its tab number.`

// NewRenameCommand creates the rename command
func NewRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <ref> <name>",
		Short: "Rename a document",
		Long: `Rename a document. The language is left unchanged.

` + refHelp + `

Examples:
  tabpad rename 2 notes.md
  tabpad rename untitled.txt todo.txt`,
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateDocumentName(args[1]); err != nil {
				return err
			}
			return withDocuments(cmd, func(c *cli.CommandContext) error {
				doc, err := c.Resolve(args[0])
				if err != nil {
					return err
				}
				c.Manager.Rename(c.Ctx, doc.ID, args[1])
				return outputMutation(cmd, c, doc, "Renamed %s to %s", doc.Name, args[1])
			})
		},
	}
}

// NewDuplicateCommand creates the duplicate command
func NewDuplicateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "duplicate <ref>",
		Aliases: []string{"dup"},
		Short:   "Copy a document into a new tab",
		Long: `Copy a document's name, language and content into a new tab at the end of
the list. The copy is named "<name> copy.<ext>". The active document does not
change.

` + refHelp,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocuments(cmd, func(c *cli.CommandContext) error {
				doc, err := c.Resolve(args[0])
				if err != nil {
					return err
				}
				dup, _ := c.Manager.Duplicate(c.Ctx, doc.ID)
				return outputMutation(cmd, c, dup, "Duplicated %s as %s (%s)", doc.Name, dup.Name, shortID(dup.ID))
			})
		},
	}
}

// NewActivateCommand creates the activate command
func NewActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "activate <ref>",
		Aliases: []string{"switch"},
		Short:   "Make a document the active tab",
		Long: `Make a document the active tab. The editor opens on it next time.

` + refHelp,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDocuments(cmd, func(c *cli.CommandContext) error {
				doc, err := c.Resolve(args[0])
				if err != nil {
					return err
				}
				c.Manager.SetActive(c.Ctx, doc.ID)
				return outputMutation(cmd, c, doc, "Activated %s", doc.Name)
			})
		},
	}
}
