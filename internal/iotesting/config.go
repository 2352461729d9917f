// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"
	"testing"

	"github.com/gnames/bdeseries/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "bdeseries_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It starts from defaults, applies BDESERIES_DATABASE_* environment
// variables and overrides the database name to TestDatabaseName for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if s := os.Getenv("BDESERIES_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("BDESERIES_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("BDESERIES_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("BDESERIES_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SetupTempHome creates a temporary home directory and returns a config
// that points to it. BDESERIES_DATA_PATH is cleared for the duration
// of the test, so the data root resolves under the temporary home.
func SetupTempHome(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.EnvDataPath, "")

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptCatalogWithProgress(false),
	})
	return cfg
}

// WriteTempDatabasesYAML writes a databases.yaml file into the config
// directory of the given home.
//
// Usage:
//
//	cfg := iotesting.SetupTempHome(t)
//	iotesting.WriteTempDatabasesYAML(t, cfg.HomeDir, `
//	databases:
//	  - tag: be
//	    url: http://127.0.0.1:8080/be.zip
//	`)
func WriteTempDatabasesYAML(t *testing.T, homeDir, content string) string {
	t.Helper()

	dir := config.ConfigDir(homeDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	path := config.DatabasesFilePath(homeDir)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp databases.yaml: %v", err)
	}
	return path
}
