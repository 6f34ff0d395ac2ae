package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/internal/config"
	"github.com/pluqqy/tabpad/pkg/files"
)

// NewSettingsCommand creates the settings command
func NewSettingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the effective settings",
		Long: `Show the settings in effect for the workspace: the defaults, overridden by
.tabpad/settings.yaml, overridden by TABPAD_* environment variables such as
TABPAD_STORAGE_BACKEND or TABPAD_LOG_LEVEL.`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.NewLoader(files.WorkspacePath(workspaceRoot(cmd)))
			if err != nil {
				return err
			}
			settings, err := loader.Load()
			if err != nil {
				return err
			}

			switch format := outputFormat(cmd); format {
			case "json", "yaml":
				return cli.OutputResults(cmd.OutOrStdout(), format, settings)
			}

			source := loader.ConfigFileUsed()
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", source)
			data, err := yaml.Marshal(settings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
