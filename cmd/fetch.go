package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/gnames/bdeseries/internal/iofetch"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch [database tags...]",
		Short: "Download and extract database archives",
		Long: `Download zip archives of databases listed in
~/.config/bdeseries/databases.yaml and extract them into the data root.

A database is downloaded at most once a day: if all its CSV files were
modified today, the download is skipped. Use --force to download anyway.

Examples:
  bdeseries fetch
  bdeseries fetch be
  bdeseries fetch --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFetch(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fetchCmd.Flags().BoolP("force", "f", false,
		"download even if files were downloaded today")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg.Update(flagOptions(cmd, forceFlag))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dbs, err := selectDatabases(args, true)
	if err != nil {
		return err
	}
	if len(dbs) == 0 {
		return errors.New("no databases to fetch")
	}

	f := iofetch.New(cfg, dataRoot, dbs)
	paths, err := f.FetchAll(ctx)
	if err != nil {
		return err
	}

	gn.Info("%d CSV files are available in <em>%s</em>", len(paths), dataRoot)
	return nil
}
