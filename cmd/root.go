package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/barky/internal/bookmarks"
	"github.com/lepinkainen/barky/internal/config"
	"github.com/lepinkainen/barky/internal/tablestore"
)

// stdout receives command output; tests swap it for a buffer
var stdout io.Writer = os.Stdout

var openStore = func(path string) (*tablestore.Store, error) {
	return tablestore.Open(path, storeOptions()...)
}

// storeOptions translates the configured pragmas into store options
func storeOptions() []tablestore.Option {
	opts := []tablestore.Option{
		tablestore.WithStrictIdentifiers(),
		tablestore.WithBusyTimeout(config.BusyTimeout),
	}
	if config.ForeignKeys {
		opts = append(opts, tablestore.WithForeignKeys())
	}
	return opts
}

// CLI represents the complete command structure for the barky application
type CLI struct {
	// Global flags
	DBFile string `name:"db-file" help:"Path to the bookmark SQLite database (default ./bookmarks.db)"`
	Table  string `help:"Table bookmarks are stored in (default bookmarks)"`
	Debug  bool   `help:"Enable debug logging"`

	Add    AddCmd    `cmd:"" help:"Add a bookmark"`
	List   ListCmd   `cmd:"" help:"List bookmarks"`
	Edit   EditCmd   `cmd:"" help:"Edit a bookmark"`
	Delete DeleteCmd `cmd:"" help:"Delete bookmarks"`
	Export ExportCmd `cmd:"" help:"Export bookmarks to JSON or YAML"`
	Import ImportCmd `cmd:"" help:"Import bookmarks from other services"`
	Drop   DropCmd   `cmd:"" help:"Drop the bookmark table and everything in it"`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("barky"),
		kong.Description("A small bookmark manager backed by SQLite."),
		kong.UsageOnError(),
	}
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI
	ctx := kong.Parse(&cli, kongOptions()...)

	initLogging(cli.Debug)

	if err := initConfig(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() error {
	viper.SetDefault("dbfile", config.DefaultDBFile)
	viper.SetDefault("table", config.DefaultTableName)
	viper.SetDefault("exportdir", config.DefaultExportDir)
	viper.SetDefault("busy_timeout", config.DefaultBusyTimeout)

	// BARKY_DBFILE, BARKY_GITHUB_USER, ...
	viper.SetEnvPrefix("BARKY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("github.token", "BARKY_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("Config file not found, using defaults")
	}

	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	config.SetDatabase(cli.DBFile, cli.Table)
	if cli.DBFile != "" {
		viper.Set("dbfile", cli.DBFile)
	}
	if cli.Table != "" {
		viper.Set("table", cli.Table)
	}
}

// withRepository opens the configured database, makes sure the bookmark
// table exists and closes the store once fn returns.
func withRepository(fn func(repo *bookmarks.Repository) error) (err error) {
	store, err := openStore(config.DBFile)
	if err != nil {
		return fmt.Errorf("failed to open bookmark database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	repo := bookmarks.NewRepository(store, config.TableName)
	if err := repo.Init(); err != nil {
		return err
	}
	return fn(repo)
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
