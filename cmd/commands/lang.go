package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/models"
)

// LanguageOutput is one entry of the languages listing
type LanguageOutput struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// NewLangCommand creates the lang command
func NewLangCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lang <ref> <language>",
		Short: "Set a document's language",
		Long: `Set the language of a document. The language is a tag such as "go" or
"markdown", or its label such as "Plain Text". Run 'tabpad languages' for the
supported set.

` + refHelp,
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := cli.ValidateLanguage(args[1])
			if err != nil {
				return err
			}
			return withDocuments(cmd, func(c *cli.CommandContext) error {
				doc, err := c.Resolve(args[0])
				if err != nil {
					return err
				}
				if err := c.Manager.SetLanguage(c.Ctx, doc.ID, lang); err != nil {
					return err
				}
				return outputMutation(cmd, c, doc, "Set %s to %s", doc.Name, lang.Label())
			})
		},
	}
}

// NewLanguagesCommand creates the languages command
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported document languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := make([]LanguageOutput, len(models.Languages))
			for i, info := range models.Languages {
				langs[i] = LanguageOutput{Value: string(info.Value), Label: info.Label}
			}

			switch format := outputFormat(cmd); format {
			case "json", "yaml":
				return cli.OutputResults(cmd.OutOrStdout(), format, langs)
			}

			table := cli.NewTableFormatter(cmd.OutOrStdout())
			table.Header("VALUE", "LABEL")
			for _, l := range langs {
				table.Row(l.Value, l.Label)
			}
			table.Flush()
			return nil
		},
	}
}
