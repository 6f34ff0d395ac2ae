package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/files"
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tabpad workspace",
		Long:  `Creates the .tabpad folder with default settings in the workspace directory`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := workspaceRoot(cmd)
			abs, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("failed to determine workspace directory: %w", err)
			}

			if files.IsInitialized(root) {
				cli.PrintInfo("Workspace already initialized in %s", abs)
			} else {
				cli.PrintInfo("Initializing tabpad workspace in %s...", abs)
			}

			if err := files.InitProjectStructure(root); err != nil {
				return fmt.Errorf("failed to initialize workspace: %w. Make sure you have write permissions in %s", err, abs)
			}

			cli.PrintSuccess("Created %s folder structure", files.TabpadDir)
			cli.PrintInfo("Run 'tabpad' to start the editor.")
			return nil
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tabpad",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tabpad version %s\n", version)
		},
	}
}
