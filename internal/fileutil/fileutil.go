// Package fileutil writes export files without clobbering existing ones
// unless asked to.
package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MarshalFunc encodes a value into file contents
type MarshalFunc func(v any) ([]byte, error)

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag.
// Returns true if the file was written, false if it was skipped.
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	return true, nil
}

// WriteEncodedFile marshals data with marshal and writes it to filePath.
// Returns true if the file was written, false if it was skipped.
func WriteEncodedFile(data any, filePath string, overwrite bool, format string, marshal MarshalFunc) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("File already exists, skipping", "format", format, "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	encoded, err := marshal(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", format, err)
	}

	slog.Info("Writing file", "format", format, "filename", filePath, "overwrite", overwrite)
	return WriteFileWithOverwrite(filePath, encoded, 0644, true)
}

// WriteJSONFile writes data as indented JSON
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	return WriteEncodedFile(data, filePath, overwrite, "JSON", func(v any) ([]byte, error) {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	})
}

// WriteYAMLFile writes data as YAML
func WriteYAMLFile(data any, filePath string, overwrite bool) (bool, error) {
	return WriteEncodedFile(data, filePath, overwrite, "YAML", yaml.Marshal)
}
