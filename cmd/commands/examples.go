package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/examples"
)

// ExampleOutput is one entry of the examples listing
type ExampleOutput struct {
	Key         string `json:"key" yaml:"key"`
	Category    string `json:"category" yaml:"category"`
	Name        string `json:"name" yaml:"name"`
	Language    string `json:"language" yaml:"language"`
	Description string `json:"description" yaml:"description"`
}

// NewExamplesCommand creates the examples command
func NewExamplesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "examples [category]",
		Short: "List starter examples for new documents",
		Long: fmt.Sprintf(`List the starter documents that 'tabpad new --example <key>' creates.

Categories: %v

Examples:
  tabpad examples
  tabpad examples web
  tabpad new --example readme`, examples.Categories),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: examples.Categories,
		RunE: func(cmd *cobra.Command, args []string) error {
			category := "all"
			if len(args) > 0 {
				category = args[0]
				if !cli.Contains(examples.Categories, category) {
					return fmt.Errorf("unknown category %q (must be one of: %v)", category, examples.Categories)
				}
			}

			var list []ExampleOutput
			for _, ex := range examples.GetExamples(category) {
				list = append(list, ExampleOutput{
					Key:         ex.Key,
					Category:    ex.Category,
					Name:        ex.Template.Name,
					Language:    string(ex.Template.Language),
					Description: ex.Description,
				})
			}

			switch format := outputFormat(cmd); format {
			case "json", "yaml":
				return cli.OutputResults(cmd.OutOrStdout(), format, list)
			}

			table := cli.NewTableFormatter(cmd.OutOrStdout())
			table.Header("KEY", "CATEGORY", "NAME", "DESCRIPTION")
			for _, ex := range list {
				table.Row(ex.Key, ex.Category, ex.Name, ex.Description)
			}
			table.Flush()
			return nil
		},
	}
}
