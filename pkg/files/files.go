package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/tabpad/pkg/models"
)

const (
	TabpadDir    = ".tabpad"
	ExportsDir   = "exports"
	SettingsFile = "settings.yaml"

	// MaxSourceSize caps the size of a file loaded into a document
	MaxSourceSize = 16 << 20
)

var (
	ErrNotRegularFile = errors.New("not a regular file")
	ErrSourceTooLarge = errors.New("file is too large to open")
	ErrBinarySource   = errors.New("file is not valid UTF-8 text")
	ErrInvalidName    = errors.New("invalid file name")
)

// WorkspacePath returns the workspace directory under root
func WorkspacePath(root string) string {
	return filepath.Join(root, TabpadDir)
}

// InitProjectStructure creates the workspace under root and writes default
// settings unless a settings file already exists.
func InitProjectStructure(root string) error {
	workspace := WorkspacePath(root)
	dirs := []string{
		workspace,
		filepath.Join(workspace, ExportsDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	settingsPath := filepath.Join(workspace, SettingsFile)
	if _, err := os.Stat(settingsPath); err == nil {
		return nil
	}
	return WriteSettings(settingsPath, models.DefaultSettings())
}

// IsInitialized reports whether root contains a workspace directory
func IsInitialized(root string) bool {
	info, err := os.Stat(WorkspacePath(root))
	return err == nil && info.IsDir()
}

// ReadSource reads a local text file to be opened as a document. It returns
// the file's base name and its content.
func ReadSource(path string) (string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	if info.Size() > MaxSourceSize {
		return "", "", fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrSourceTooLarge)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(content) {
		return "", "", fmt.Errorf("%s: %w", path, ErrBinarySource)
	}

	return filepath.Base(path), NormalizeLineEndings(string(content)), nil
}

// NormalizeLineEndings converts CRLF line endings to LF. Lone carriage
// returns are kept.
func NormalizeLineEndings(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// ValidateExportName rejects names that would escape the export directory
func ValidateExportName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}

// DirExporter writes exported documents into a directory
type DirExporter struct {
	Dir string
}

// NewDirExporter returns an exporter writing into dir
func NewDirExporter(dir string) *DirExporter {
	return &DirExporter{Dir: dir}
}

// Export writes content to Dir/name, creating Dir if needed
func (e *DirExporter) Export(name, content string) error {
	if err := ValidateExportName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return WriteFile(filepath.Join(e.Dir, name), content)
}

// WriteFile writes content to a file
func WriteFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// ReadSettings parses a settings file. Missing fields keep their defaults.
func ReadSettings(path string) (*models.Settings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	settings := models.DefaultSettings()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML %s: %w", path, err)
	}
	return settings, nil
}

// WriteSettings writes settings as YAML
func WriteSettings(path string, settings *models.Settings) error {
	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for settings: %w", err)
	}
	return WriteFile(path, string(content))
}
