package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
)

// NewRootCommand creates the tabpad command tree. Running it without a
// subcommand starts the editor.
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabpad",
		Short: "Tabbed text editor for the terminal",
		Long: `Tabpad keeps a set of text documents open in tabs and saves them
automatically to the .tabpad workspace in the current directory. Documents can
be edited in the terminal editor or managed with the subcommands below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if err := cli.ValidateOutputFormat(output); err != nil {
				return err
			}

			quiet, _ := cmd.Flags().GetBool("quiet")
			noColor, _ := cmd.Flags().GetBool("no-color")
			yes, _ := cmd.Flags().GetBool("yes")
			cli.SetGlobalFlags(quiet, noColor, yes)
			cli.SetStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.ValidateProject(workspaceRoot(cmd))
		},
		RunE: runEditor,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("output", "o", "text", "Output format: text, json, or yaml")
	flags.BoolP("quiet", "q", false, "Suppress informational output")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("yes", "y", false, "Answer yes to confirmation prompts")
	flags.StringP("workspace", "w", ".", "Directory containing the .tabpad workspace")

	cmd.AddCommand(
		NewInitCommand(),
		NewVersionCommand(version),
		NewListCommand(),
		NewNewCommand(),
		NewOpenCommand(),
		NewShowCommand(),
		NewRenameCommand(),
		NewDuplicateCommand(),
		NewCloseCommand(),
		NewActivateCommand(),
		NewLangCommand(),
		NewLanguagesCommand(),
		NewReplaceCommand(),
		NewSearchCommand(),
		NewExportCommand(),
		NewClipboardCommand(),
		NewBundleCommand(),
		NewExamplesCommand(),
		NewSettingsCommand(),
	)

	return cmd
}

func workspaceRoot(cmd *cobra.Command) string {
	root, _ := cmd.Flags().GetString("workspace")
	if root == "" {
		return "."
	}
	return root
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

// requireProject is the PreRunE of every command that reads the document set
func requireProject(cmd *cobra.Command, args []string) error {
	return cli.ValidateProject(workspaceRoot(cmd))
}

// withDocuments opens the document set for the duration of fn
func withDocuments(cmd *cobra.Command, fn func(c *cli.CommandContext) error) error {
	c, err := cli.NewCommandContext(cmd.Context(), workspaceRoot(cmd), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	runErr := fn(c)
	if closeErr := c.Close(); closeErr != nil && runErr == nil {
		return closeErr
	}
	return runErr
}
