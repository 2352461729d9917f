package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gnames/bdeseries/internal/ioassemble"
	"github.com/gnames/bdeseries/internal/iobuild"
	"github.com/gnames/bdeseries/internal/ioexport"
	"github.com/gnames/bdeseries/internal/iofetch"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/databases"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getCatalogCmd returns the catalog command.
func getCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog [database tags...]",
		Short: "Build a catalog of series from downloaded files",
		Long: `Build a catalog of all series of downloaded databases.

Every CSV file of a database directory is read, its date column is
classified, metadata rows are separated from observations, and one
catalog row is created per series. Files that fail are reported and do
not stop the run.

Without arguments all databases of databases.yaml are used. By default
the catalogs of all databases are merged into one file in the data root.
With --separate every database gets its own catalog inside its directory.
Catalog files contain the marker 'catalogo' in their name and are never
read as source files.

Examples:
  bdeseries catalog
  bdeseries catalog be cf --separate
  bdeseries catalog be -f xlsx -o ~/be.xlsx
  bdeseries catalog cf -f sqlite --with-observations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCatalog(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	catalogCmd.Flags().StringP("format", "f", "csv",
		"catalog format: csv, json, xlsx or sqlite")
	catalogCmd.Flags().StringP("output", "o", "",
		"path of the merged catalog")
	catalogCmd.Flags().BoolP("separate", "s", false,
		"write one catalog per database")
	catalogCmd.Flags().BoolP("with-observations", "w", false,
		"write observation tables (Parquet, or tables in sqlite)")

	return catalogCmd
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg.Update(flagOptions(cmd,
		formatFlag, outputFlag, separateFlag, observationsFlag,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dbs, err := selectDatabases(args, false)
	if err != nil {
		return err
	}

	parts, err := assembleDatabases(ctx, dbs)
	if err != nil {
		return err
	}

	ext := ioexport.Ext(cfg.Catalog.Format)
	if cfg.Catalog.Separate {
		if cfg.Catalog.Output != "" {
			gn.Warn("<em>--output</em> is ignored with <em>--separate</em>")
		}
		for _, p := range parts {
			name := cfg.Catalog.Marker + "_" + p.tag + ext
			path := filepath.Join(dataRoot, p.tag, name)
			if err = exportCatalog(ctx, path, p.cat); err != nil {
				return err
			}
		}
		return nil
	}

	merged := catalog.New()
	for _, p := range parts {
		merged.Merge(p.cat)
	}
	path := cfg.Catalog.Output
	if path == "" {
		path = filepath.Join(dataRoot, cfg.Catalog.Marker+ext)
	}
	return exportCatalog(ctx, path, merged)
}

func exportCatalog(
	ctx context.Context,
	path string,
	cat *catalog.Catalog,
) error {
	if err := ioexport.New(cfg, path).Export(ctx, cat); err != nil {
		return err
	}
	gn.Info("Catalog with %d series is saved to <em>%s</em>", cat.Len(), path)
	return nil
}

// part is the catalog of one database.
type part struct {
	tag string
	cat *catalog.Catalog
	rep *catalog.Report
}

// assembleDatabases builds catalogs of databases in the given order.
// A database where every file failed is reported and skipped; the error
// is returned only if no database produced a catalog.
func assembleDatabases(
	ctx context.Context,
	dbs []databases.Database,
) ([]part, error) {
	a := ioassemble.New(cfg, iobuild.New(cfg))

	var res []part
	var lastErr error
	for _, db := range dbs {
		dir := filepath.Join(dataRoot, db.Tag)
		cat, rep, err := a.Assemble(ctx, dir, db.Tag)
		if err != nil {
			gn.PrintErrorMessage(err)
			lastErr = err
			continue
		}
		if err = ctx.Err(); err != nil {
			return nil, ioassemble.CancelledError(err)
		}
		if rep.Processed == 0 && len(rep.Failures) > 0 {
			err = ioassemble.AllFilesFailedError(db.Tag, len(rep.Failures))
			gn.PrintErrorMessage(err)
			lastErr = err
			continue
		}
		res = append(res, part{tag: db.Tag, cat: cat, rep: rep})
	}

	if len(res) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return res, nil
}

// selectDatabases returns databases named in args, or all databases of
// databases.yaml when args are empty. With strict, tags missing from
// databases.yaml are skipped with a warning; otherwise they are treated
// as plain directories of the data root.
func selectDatabases(args []string, strict bool) ([]databases.Database, error) {
	dbCfg, err := iofetch.LoadDatabases(config.DatabasesFilePath(homeDir))
	if err != nil {
		return nil, err
	}

	res, unknown := dbCfg.Filter(args)
	for _, tag := range unknown {
		if strict {
			gn.Warn("Database <em>%s</em> is not in databases.yaml, skipping", tag)
			continue
		}
		res = append(res, databases.Database{Tag: tag})
	}
	return res, nil
}
