// Package export writes bookmarks to JSON or YAML files.
package export

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/barky/internal/bookmarks"
	"github.com/lepinkainen/barky/internal/fileutil"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use json or yaml)", s)
	}
}

// Write stores items at path in format. Existing files are left alone
// unless overwrite is set; the return value reports whether a file was written.
func Write(items []bookmarks.Bookmark, path string, format Format, overwrite bool) (bool, error) {
	if items == nil {
		items = []bookmarks.Bookmark{}
	}

	switch format {
	case FormatJSON:
		return fileutil.WriteJSONFile(items, path, overwrite)
	case FormatYAML:
		return fileutil.WriteYAMLFile(items, path, overwrite)
	default:
		return false, fmt.Errorf("unsupported export format %q", format)
	}
}
