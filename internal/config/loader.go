// Package config loads tabpad settings from the workspace settings file and
// TABPAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/storage"
)

// EnvPrefix is prepended to every environment override, e.g. TABPAD_STORAGE_BACKEND
const EnvPrefix = "TABPAD"

// Loader reads settings for one workspace
type Loader struct {
	viper     *viper.Viper
	workspace string
}

// NewLoader creates a loader for the settings file inside workspace
func NewLoader(workspace string) (*Loader, error) {
	v := viper.New()

	v.SetConfigName(strings.TrimSuffix(files.SettingsFile, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(workspace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "TABPAD_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TABPAD_LOG_LEVEL: %w", err)
	}

	return &Loader{viper: v, workspace: workspace}, nil
}

// Load reads the settings file if present and applies environment overrides
// on top of the defaults. A missing settings file is not an error.
func (l *Loader) Load() (*models.Settings, error) {
	l.setDefaults(models.DefaultSettings())

	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings in %s: %w", l.workspace, err)
		}
	}

	settings := &models.Settings{}
	if err := l.viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", l.viper.ConfigFileUsed(), err)
	}

	normalize(settings)
	if err := Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ConfigFileUsed returns the settings file that was read, or empty
func (l *Loader) ConfigFileUsed() string {
	return l.viper.ConfigFileUsed()
}

// Load is a shortcut for NewLoader(workspace).Load()
func Load(workspace string) (*models.Settings, error) {
	loader, err := NewLoader(workspace)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func (l *Loader) setDefaults(defaults *models.Settings) {
	l.viper.SetDefault("storage.backend", defaults.Storage.Backend)
	l.viper.SetDefault("storage.key", defaults.Storage.Key)
	l.viper.SetDefault("storage.flush_delay", defaults.Storage.FlushDelay)

	l.viper.SetDefault("editor.word_wrap", defaults.Editor.WordWrap)
	l.viper.SetDefault("editor.tab_width", defaults.Editor.TabWidth)

	l.viper.SetDefault("output.export_path", defaults.Output.ExportPath)

	l.viper.SetDefault("logging.level", defaults.Logging.Level)
	l.viper.SetDefault("logging.format", defaults.Logging.Format)
	l.viper.SetDefault("logging.file", defaults.Logging.File)
}

func normalize(settings *models.Settings) {
	settings.Storage.Backend = strings.ToLower(strings.TrimSpace(settings.Storage.Backend))
	if settings.Storage.Backend == "" {
		settings.Storage.Backend = models.StorageBackendFile
	}
	if settings.Storage.Key == "" {
		settings.Storage.Key = models.DefaultStorageKey
	}
	settings.Logging.Format = strings.ToLower(settings.Logging.Format)
	if settings.Output.ExportPath == "" {
		settings.Output.ExportPath = "./"
	}
}

// Validate reports every invalid field at once
func Validate(settings *models.Settings) error {
	var problems []string

	switch settings.Storage.Backend {
	case models.StorageBackendFile, models.StorageBackendSQLite, models.StorageBackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("storage.backend %q must be one of: file, sqlite, memory", settings.Storage.Backend))
	}
	if err := storage.ValidateKey(settings.Storage.Key); err != nil {
		problems = append(problems, fmt.Sprintf("storage.key: %v", err))
	}
	if _, err := FlushDelay(settings); err != nil {
		problems = append(problems, err.Error())
	}
	if settings.Editor.TabWidth < 1 || settings.Editor.TabWidth > 16 {
		problems = append(problems, fmt.Sprintf("editor.tab_width %d must be between 1 and 16", settings.Editor.TabWidth))
	}
	switch settings.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", settings.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid settings:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// FlushDelay parses storage.flush_delay. Empty means no delay.
func FlushDelay(settings *models.Settings) (time.Duration, error) {
	raw := strings.TrimSpace(settings.Storage.FlushDelay)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("storage.flush_delay %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("storage.flush_delay %q must not be negative", raw)
	}
	return d, nil
}
