package testutil

import (
	"testing"

	"github.com/lepinkainen/barky/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DBFile         string
	TableName      string
	ExportDir      string
	OverwriteFiles bool
	GitHubUser     string
	GitHubToken    string
	BusyTimeout    int
	ForeignKeys    bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DBFile:         config.DBFile,
		TableName:      config.TableName,
		ExportDir:      config.ExportDir,
		OverwriteFiles: config.OverwriteFiles,
		GitHubUser:     config.GitHubUser,
		GitHubToken:    config.GitHubToken,
		BusyTimeout:    config.BusyTimeout,
		ForeignKeys:    config.ForeignKeys,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DBFile = state.DBFile
	config.TableName = state.TableName
	config.ExportDir = state.ExportDir
	config.OverwriteFiles = state.OverwriteFiles
	config.GitHubUser = state.GitHubUser
	config.GitHubToken = state.GitHubToken
	config.BusyTimeout = state.BusyTimeout
	config.ForeignKeys = state.ForeignKeys
}

// SetTestConfig points the global config at a database and export directory
// inside env and restores the previous config and viper state when the test
// completes. It returns the database path.
func SetTestConfig(t *testing.T, env *TestEnv) string {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	dbPath := env.DBPath("bookmarks")
	config.DBFile = dbPath
	config.TableName = config.DefaultTableName
	config.ExportDir = env.Path("export")
	config.OverwriteFiles = false
	config.GitHubUser = ""
	config.GitHubToken = ""
	config.BusyTimeout = config.DefaultBusyTimeout
	config.ForeignKeys = false

	viper.Set("dbfile", dbPath)
	viper.Set("table", config.DefaultTableName)
	viper.Set("exportdir", config.ExportDir)

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})

	return dbPath
}
