/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/bdeseries/internal/iofs"
	"github.com/gnames/bdeseries/internal/iologger"
	app "github.com/gnames/bdeseries/pkg"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	dataRoot  string
	logCloser io.Closer
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "bdeseries",
		Short:   "Catalog of Banco de España time series",
		Long: `bdeseries downloads statistical databases of Banco de España and
builds a catalog of their time series: one row per series with its
code, description, units, frequency, first and last observation
dates and the number of observations.

Commands:
  fetch     download and extract database archives
  catalog   build a catalog (csv, json, xlsx or sqlite)
  load      load a catalog and observations into PostgreSQL

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (BDESERIES_*)
  3. Config file (~/.config/bdeseries/config.yaml)
  4. Built-in defaults

Environment Variables:
  BDESERIES_DATA_PATH             root directory of downloaded data
  BDESERIES_CATALOG_FORMAT        csv, json, xlsx or sqlite
  BDESERIES_DATABASE_HOST         PostgreSQL host
  BDESERIES_LOG_LEVEL             Log level (debug/info/warn/error)
  BDESERIES_JOBS_NUMBER           number of concurrent workers`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	// Remove the automatic "bdeseries version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for bdeseries")

	rootCmd.PersistentFlags().StringP("data-path", "d", "",
		"root directory of downloaded databases")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0,
		"number of concurrent workers")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false,
		"do not show progress bars")

	rootCmd.AddCommand(getFetchCmd())
	rootCmd.AddCommand(getCatalogCmd())
	rootCmd.AddCommand(getLoadCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDatabasesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Persistent flags override config file and environment
	cfg.Update(flagOptions(cmd, dataPathFlag, jobsFlag, quietFlag))

	logCloser, err = iologger.Init(config.LogDir(homeDir), cfg.Log, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	dataRoot, err = iofs.DataRoot(cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"data_root", dataRoot,
	)

	return nil
}

func shutdown(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("BDESERIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Data root
	v.BindEnv("data_path", "BDESERIES_DATA_PATH")

	// Catalog configuration
	v.BindEnv("catalog.format", "BDESERIES_CATALOG_FORMAT")
	v.BindEnv("catalog.marker", "BDESERIES_CATALOG_MARKER")
	v.BindEnv("catalog.with_observations", "BDESERIES_CATALOG_WITH_OBSERVATIONS")

	// Fetch configuration
	v.BindEnv("fetch.timeout", "BDESERIES_FETCH_TIMEOUT")

	// Database configuration
	v.BindEnv("database.host", "BDESERIES_DATABASE_HOST")
	v.BindEnv("database.port", "BDESERIES_DATABASE_PORT")
	v.BindEnv("database.user", "BDESERIES_DATABASE_USER")
	v.BindEnv("database.password", "BDESERIES_DATABASE_PASSWORD")
	v.BindEnv("database.database", "BDESERIES_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "BDESERIES_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "BDESERIES_DATABASE_BATCH_SIZE")

	// Log configuration
	v.BindEnv("log.level", "BDESERIES_LOG_LEVEL")
	v.BindEnv("log.format", "BDESERIES_LOG_FORMAT")
	v.BindEnv("log.destination", "BDESERIES_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "BDESERIES_JOBS_NUMBER")

	v.AutomaticEnv()
}
