// Package config provides configuration management for bdeseries.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - DataPath
//   - Catalog: format, marker, with_observations
//   - Fetch: timeout
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Catalog.WithProgress, Catalog.Separate, Catalog.Output
//   - Fetch.Force
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use BDESERIES_ prefix with underscores for nesting:
//
//	BDESERIES_DATA_PATH=/srv/bde
//	BDESERIES_CATALOG_FORMAT=csv
//	BDESERIES_LOG_LEVEL=info
//	BDESERIES_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete bdeseries configuration.
type Config struct {
	// DataPath is the root directory with downloaded source files.
	// Every database lives in its own subdirectory (be, cf...).
	// When empty it is resolved to DataDir(HomeDir) at startup.
	DataPath string `mapstructure:"data_path" yaml:"data_path"`

	// Catalog contains settings of catalog generation.
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`

	// Fetch contains settings of the source downloader.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Database contains PostgreSQL connection settings used by the
	// load command.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// CatalogConfig contains settings of catalog generation.
type CatalogConfig struct {
	// Format of the catalog output: 'csv', 'json', 'xlsx' or 'sqlite'.
	Format string `mapstructure:"format" yaml:"format"`

	// Marker is a substring of file names that are catalog artifacts
	// rather than source files. Such files are skipped. Case-sensitive.
	Marker string `mapstructure:"marker" yaml:"marker"`

	// WithObservations enables writing the normalized observation
	// table of every source file as Parquet.
	WithObservations bool `mapstructure:"with_observations" yaml:"with_observations"`

	// WithProgress shows a progress bar while files are processed.
	WithProgress bool `mapstructure:"-" yaml:"-"`

	// Separate writes one catalog per database instead of a merged one.
	Separate bool `mapstructure:"-" yaml:"-"`

	// Output is the path of the catalog file. When empty the catalog
	// goes into the data directory.
	Output string `mapstructure:"-" yaml:"-"`
}

// FetchConfig contains settings of the source downloader.
type FetchConfig struct {
	// Timeout is the limit in seconds for downloading one archive.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`

	// Force downloads archives even if local files are fresh.
	Force bool `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of observation rows sent per
	// CopyFrom call.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Catalog: CatalogConfig{
			Format:       "csv",
			Marker:       "catalogo",
			WithProgress: true,
		},
		Fetch: FetchConfig{
			Timeout: 600,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "bdeseries",
			SSLMode:   "disable",
			BatchSize: 50_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
