package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lepinkainen/barky/internal/config"
)

// ExportConfig holds the output settings shared by export commands
type ExportConfig struct {
	Output    string // explicit output file, may be empty
	Format    string // file extension without the dot, e.g. "json"
	BaseName  string // file name used when Output is empty
	Overwrite bool
}

// SetupExportPath resolves cfg.Output and creates its parent directory.
// When no output file was given the file is placed in the configured export
// directory as <BaseName>.<Format>.
func SetupExportPath(cfg *ExportConfig) error {
	output := cfg.Output
	if output == "" {
		baseDir := config.ExportDir
		if baseDir == "" {
			baseDir = config.DefaultExportDir
		}
		name := cfg.BaseName
		if name == "" {
			name = "bookmarks"
		}
		output = filepath.Join(baseDir, name+"."+cfg.Format)
	}
	cfg.Output = filepath.Clean(output)

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	return nil
}
