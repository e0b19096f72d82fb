package config

import (
	"github.com/spf13/viper"
)

// Default values shared by the CLI flags and the viper defaults
const (
	DefaultDBFile    = "./bookmarks.db"
	DefaultTableName = "bookmarks"
	DefaultExportDir = "./export/"

	// DefaultBusyTimeout is how long, in milliseconds, SQLite waits on a locked database
	DefaultBusyTimeout = 5000
)

// Global configuration variables
var (
	// DBFile is the path to the SQLite bookmark database
	DBFile string
	// TableName is the table bookmarks are stored in
	TableName string
	// ExportDir is the directory export files are written to by default
	ExportDir string
	// OverwriteFiles controls whether existing export files should be overwritten
	OverwriteFiles bool
	// GitHubUser is the account whose starred repositories are imported
	GitHubUser string
	// GitHubToken is an optional personal access token for the GitHub API
	GitHubToken string
	// BusyTimeout is the SQLite busy_timeout pragma in milliseconds
	BusyTimeout int
	// ForeignKeys turns on SQLite foreign key enforcement
	ForeignKeys bool
)

// InitConfig initializes the global configuration from viper
func InitConfig() {
	viper.SetDefault("dbfile", DefaultDBFile)
	viper.SetDefault("table", DefaultTableName)
	viper.SetDefault("exportdir", DefaultExportDir)
	viper.SetDefault("overwritefiles", false)
	viper.SetDefault("busy_timeout", DefaultBusyTimeout)
	viper.SetDefault("foreign_keys", false)

	DBFile = viper.GetString("dbfile")
	TableName = viper.GetString("table")
	ExportDir = viper.GetString("exportdir")
	OverwriteFiles = viper.GetBool("overwritefiles")
	GitHubUser = viper.GetString("github.user")
	GitHubToken = viper.GetString("github.token")
	BusyTimeout = viper.GetInt("busy_timeout")
	ForeignKeys = viper.GetBool("foreign_keys")
}

// SetDatabase points the configuration at a database file and table
func SetDatabase(dbFile, table string) {
	if dbFile != "" {
		DBFile = dbFile
	}
	if table != "" {
		TableName = table
	}
}
