package commands

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/config"
	"github.com/pluqqy/tabpad/internal/logging"
	"github.com/pluqqy/tabpad/pkg/documents"
	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/storage"
	"github.com/pluqqy/tabpad/pkg/tui"
)

// runEditor starts the terminal editor on the workspace's document set. The
// editor owns the terminal, so logs go to a file inside the workspace.
func runEditor(cmd *cobra.Command, args []string) error {
	root := workspaceRoot(cmd)
	workspace := files.WorkspacePath(root)

	settings, err := config.Load(workspace)
	if err != nil {
		return err
	}
	flushDelay, err := config.FlushDelay(settings)
	if err != nil {
		return err
	}

	logPath := settings.Logging.File
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(workspace, logPath)
	}
	logger, logFile, err := logging.NewFile(logging.ConfigFromSettings(settings.Logging), logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx := logging.WithContext(cmd.Context(), logger)
	logger.Info().Str("workspace", workspace).Str("backend", settings.Storage.Backend).Msg("starting editor")

	store, err := storage.Open(ctx, workspace, settings.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", settings.Storage.Backend, err)
	}
	defer store.Close()

	persistErrs := make(chan error, 8)
	manager := documents.NewManager(ctx, store,
		documents.WithLogger(logger),
		documents.WithFlushDelay(flushDelay),
		documents.WithPersistErrorHandler(tui.PersistErrorSink(persistErrs)),
	)

	exportDir := settings.Output.ExportPath
	if exportDir == "" {
		exportDir = "."
	}
	if !filepath.IsAbs(exportDir) {
		exportDir = filepath.Join(root, exportDir)
	}

	app := tui.NewApp(ctx, manager, tui.Options{
		Exporter:      files.NewDirExporter(exportDir),
		WordWrap:      settings.Editor.WordWrap,
		TabWidth:      settings.Editor.TabWidth,
		PersistErrors: persistErrs,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// The app flushes on quit; cover interrupted runs too.
		if flushErr := manager.Close(ctx); flushErr != nil {
			logger.Error().Err(flushErr).Msg("final save failed")
		}
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}

	logger.Info().Int("documents", manager.Len()).Msg("editor closed")
	return nil
}
