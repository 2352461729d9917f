package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "bdeseries"

	// EnvDataPath is the single environment variable that overrides
	// the data root.
	EnvDataPath = "BDESERIES_DATA_PATH"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/bdeseries by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Downloads are kept here until they are verified.
// Returns ~/.cache/bdeseries by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/bdeseries/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// DataDir returns the default data root.
// Returns ~/.local/share/bdeseries/data by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "data")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/bdeseries/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatabasesFilePath returns the full path to the databases.yaml file.
// Returns ~/.config/bdeseries/databases.yaml by default.
func DatabasesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "databases.yaml")
}
