package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pluqqy/tabpad/internal/config"
	"github.com/pluqqy/tabpad/internal/logging"
	"github.com/pluqqy/tabpad/pkg/documents"
	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/storage"
)

// CommandContext manages project validation and the document set a command
// works on
type CommandContext struct {
	Ctx         context.Context
	ProjectRoot string
	Settings    *models.Settings
	Logger      zerolog.Logger
	Store       storage.Store
	Manager     *documents.Manager
}

// NewCommandContext validates the workspace under root, loads its settings
// and opens the document set. Log output goes to logOut at warn level unless
// the settings ask for more. Callers must Close the context.
func NewCommandContext(ctx context.Context, root string, logOut io.Writer) (*CommandContext, error) {
	if err := ValidateProject(root); err != nil {
		return nil, err
	}

	workspace := files.WorkspacePath(root)
	settings, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}

	logCfg := logging.ConfigFromSettings(settings.Logging)
	if logCfg.Level < zerolog.WarnLevel {
		logCfg.Level = zerolog.WarnLevel
	}
	logger := logging.New(logCfg, logOut)
	ctx = logging.WithContext(ctx, logger)

	store, err := storage.Open(ctx, workspace, settings.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", settings.Storage.Backend, err)
	}

	manager := documents.NewManager(ctx, store, documents.WithLogger(logger))
	if loadErr := manager.LoadError(); loadErr != nil {
		PrintWarning("saved documents could not be restored: %v", loadErr)
	}

	return &CommandContext{
		Ctx:         ctx,
		ProjectRoot: root,
		Settings:    settings,
		Logger:      logger,
		Store:       store,
		Manager:     manager,
	}, nil
}

// ValidateProject ensures the project is initialized
func ValidateProject(root string) error {
	if !files.IsInitialized(root) {
		return fmt.Errorf("no %s directory found in %s. Run 'tabpad init' first", files.TabpadDir, root)
	}
	return nil
}

// Resolve finds a document by id, id prefix, name or tab number
func (c *CommandContext) Resolve(ref string) (models.Document, error) {
	return c.Manager.Find(ref)
}

// ExportDir resolves the configured export path against the project root
func (c *CommandContext) ExportDir() string {
	dir := c.Settings.Output.ExportPath
	if dir == "" {
		dir = "."
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectRoot, dir)
}

// Exporter writes into ExportDir
func (c *CommandContext) Exporter() *files.DirExporter {
	return files.NewDirExporter(c.ExportDir())
}

// Close writes any pending change and releases the store. Read-only
// commands leave the stored set untouched.
func (c *CommandContext) Close() error {
	flushErr := c.Manager.Flush(c.Ctx)
	closeErr := c.Store.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
