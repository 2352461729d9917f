package iofs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/templates"
)

// EnsureDirs creates config, cache and log directories if they are missing.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless it already exists.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), templates.ConfigYAML)
}

// EnsureDatabasesFile writes the default databases.yaml unless it already
// exists.
func EnsureDatabasesFile(homeDir string) error {
	return ensureFile(config.DatabasesFilePath(homeDir), templates.DatabasesYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return WriteTemplateError(path, err)
	}

	return nil
}

// DataRoot resolves the root directory of downloaded databases and creates
// it if needed. The BDESERIES_DATA_PATH environment variable wins over the
// configured path; without both the default DataDir is used. A leading
// "~" is expanded to cfg.HomeDir.
func DataRoot(cfg *config.Config) (string, error) {
	path := cfg.DataPath
	if env := strings.TrimSpace(os.Getenv(config.EnvDataPath)); env != "" {
		path = env
	}
	if path == "" {
		path = config.DataDir(cfg.HomeDir)
	}
	path = ExpandHome(path, cfg.HomeDir)

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", CreateDirError(path, err)
	}
	if err = touchDir(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// DatabaseDir returns the directory of a database inside the data root,
// creating it if needed.
func DatabaseDir(root, tag string) (string, error) {
	dir := filepath.Join(root, tag)
	if err := touchDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// ExpandHome replaces a leading "~" with homeDir.
func ExpandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
