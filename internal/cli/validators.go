package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pluqqy/tabpad/pkg/models"
)

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateDirectoryPath validates that a directory path exists
func ValidateDirectoryPath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("error accessing directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
	if Contains(validFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ValidateLanguage parses a language tag or display label
func ValidateLanguage(s string) (models.Language, error) {
	if lang, err := models.ParseLanguage(strings.ToLower(s)); err == nil {
		return lang, nil
	}
	for _, info := range models.Languages {
		if strings.EqualFold(info.Label, strings.TrimSpace(s)) {
			return info.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %s (run 'tabpad languages' for the list)", models.ErrInvalidLanguage, s)
}

// ValidateDocumentName validates a document name given on the command line
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("document name cannot be empty")
	}
	if strings.ContainsAny(name, "\n\r\x00") {
		return fmt.Errorf("document name cannot contain line breaks or NUL")
	}
	return nil
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
