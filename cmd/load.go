package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/gnames/bdeseries/internal/iodb"
	"github.com/gnames/bdeseries/internal/ioload"
	"github.com/gnames/bdeseries/internal/ioschema"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getLoadCmd returns the load command.
func getLoadCmd() *cobra.Command {
	var drop bool

	loadCmd := &cobra.Command{
		Use:   "load [database tags...]",
		Short: "Load catalog into PostgreSQL",
		Long: `Build catalogs of downloaded databases and load them into PostgreSQL.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Creates or updates tables using GORM AutoMigrate
  3. Builds catalogs of the given databases (all by default)
  4. Replaces rows of these databases using CopyFrom

Rows of databases that are not loaded stay untouched.
With --with-observations non-missing values of every series are loaded
into the observations table.

Examples:
  bdeseries load
  bdeseries load be --with-observations
  bdeseries load --drop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLoad(cmd, args, drop)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	loadCmd.Flags().BoolP("with-observations", "w", false,
		"load observations")
	loadCmd.Flags().BoolVar(&drop, "drop", false,
		"drop all tables before loading")

	return loadCmd
}

func runLoad(cmd *cobra.Command, args []string, drop bool) error {
	cfg.Update(flagOptions(cmd, observationsFlag))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dbs, err := selectDatabases(args, false)
	if err != nil {
		return err
	}

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	if drop {
		var tables []string
		if tables, err = op.Tables(ctx); err != nil {
			return err
		}
		gn.Info("Dropping <em>%d</em> existing tables (--drop enabled)...",
			len(tables))
		if err = op.DropAllTables(ctx); err != nil {
			return err
		}
	}

	if err = ioschema.NewManager(op).Create(ctx, cfg); err != nil {
		return err
	}

	parts, err := assembleDatabases(ctx, dbs)
	if err != nil {
		return err
	}

	merged := catalog.New()
	for _, p := range parts {
		merged.Merge(p.cat)
	}

	return ioload.New(cfg, op).Export(ctx, merged)
}
