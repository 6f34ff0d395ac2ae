package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/tabpad/pkg/files"
	"github.com/pluqqy/tabpad/pkg/models"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, files.SettingsFile), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `
storage:
  backend: SQLite
  flush_delay: 300ms
editor:
  word_wrap: false
logging:
  level: debug
`)

	loader, err := NewLoader(dir)
	require.NoError(t, err)
	settings, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, files.SettingsFile), loader.ConfigFileUsed())
	assert.Equal(t, models.StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, models.DefaultStorageKey, settings.Storage.Key, "unset keys keep defaults")
	assert.False(t, settings.Editor.WordWrap)
	assert.Equal(t, 4, settings.Editor.TabWidth)
	assert.Equal(t, "debug", settings.Logging.Level)

	delay, err := FlushDelay(settings)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, delay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "storage:\n  backend: sqlite\n")

	t.Setenv("TABPAD_STORAGE_BACKEND", "memory")
	t.Setenv("TABPAD_EDITOR_WORD_WRAP", "false")
	t.Setenv("TABPAD_LOG_LEVEL", "error")

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, models.StorageBackendMemory, settings.Storage.Backend)
	assert.False(t, settings.Editor.WordWrap)
	assert.Equal(t, "error", settings.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"backend", "storage:\n  backend: redis\n", "storage.backend"},
		{"key", "storage:\n  key: ../escape\n", "storage.key"},
		{"flush delay", "storage:\n  flush_delay: soon\n", "storage.flush_delay"},
		{"tab width", "editor:\n  tab_width: 0\n", "editor.tab_width"},
		{"log format", "logging:\n  format: xml\n", "logging.format"},
		{"yaml", "storage: [", "failed to read settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.content)

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestFlushDelay(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"1s", time.Second, false},
		{"-1s", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			settings := models.DefaultSettings()
			settings.Storage.FlushDelay = tt.input
			got, err := FlushDelay(settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
