package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/barky/internal/bookmarks"
	"github.com/lepinkainen/barky/internal/cmdutil"
	"github.com/lepinkainen/barky/internal/config"
	"github.com/lepinkainen/barky/internal/export"
)

// ExportCmd represents the export command
type ExportCmd struct {
	Format    string `short:"f" help:"Output format" enum:"json,yaml,yml" default:"json"`
	Output    string `short:"o" help:"Output file (defaults to <exportdir>/bookmarks.<format>)"`
	Overwrite bool   `help:"Overwrite an existing export file"`
}

func (e *ExportCmd) Run() error {
	format, err := export.ParseFormat(e.Format)
	if err != nil {
		return err
	}

	exportCfg := cmdutil.ExportConfig{
		Output:    e.Output,
		Format:    string(format),
		BaseName:  config.TableName,
		Overwrite: e.Overwrite || config.OverwriteFiles,
	}
	if err := cmdutil.SetupExportPath(&exportCfg); err != nil {
		return err
	}

	return withRepository(func(repo *bookmarks.Repository) error {
		items, err := repo.List(bookmarks.Filter{}, bookmarks.OrderByID, false)
		if err != nil {
			return err
		}

		written, err := export.Write(items, exportCfg.Output, format, exportCfg.Overwrite)
		if err != nil {
			return fmt.Errorf("failed to export bookmarks: %w", err)
		}
		if !written {
			slog.Warn("Export file exists, use --overwrite to replace it", "path", exportCfg.Output)
			return nil
		}

		_, err = fmt.Fprintf(stdout, "Exported %d bookmark(s) to %s\n", len(items), exportCfg.Output)
		return err
	})
}
