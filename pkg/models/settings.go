package models

// Settings represents the application configuration
type Settings struct {
	Storage StorageSettings `json:"storage" yaml:"storage" mapstructure:"storage"`
	Editor  EditorSettings  `json:"editor" yaml:"editor" mapstructure:"editor"`
	Output  OutputSettings  `json:"output" yaml:"output" mapstructure:"output"`
	Logging LoggingSettings `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// StorageSettings controls where the document set is persisted
type StorageSettings struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"` // "file", "sqlite" or "memory"
	Key     string `json:"key" yaml:"key" mapstructure:"key"`
	// FlushDelay coalesces content writes, e.g. "500ms". Empty writes on every change.
	FlushDelay string `json:"flush_delay" yaml:"flush_delay" mapstructure:"flush_delay"`
}

// EditorSettings controls editor preferences
type EditorSettings struct {
	WordWrap bool `json:"word_wrap" yaml:"word_wrap" mapstructure:"word_wrap"`
	TabWidth int  `json:"tab_width" yaml:"tab_width" mapstructure:"tab_width"`
}

// OutputSettings controls exports
type OutputSettings struct {
	ExportPath string `json:"export_path" yaml:"export_path" mapstructure:"export_path"`
}

// LoggingSettings controls the structured logger
type LoggingSettings struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "console" or "json"
	File   string `json:"file" yaml:"file" mapstructure:"file"`
}

const (
	StorageBackendFile   = "file"
	StorageBackendSQLite = "sqlite"
	StorageBackendMemory = "memory"

	DefaultStorageKey = "tabpad-project"
)

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Storage: StorageSettings{
			Backend: StorageBackendFile,
			Key:     DefaultStorageKey,
		},
		Editor: EditorSettings{
			WordWrap: true,
			TabWidth: 4,
		},
		Output: OutputSettings{
			ExportPath: "./",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
			File:   "tabpad.log",
		},
	}
}
