// Package ioassemble builds a catalog out of a directory of source files.
// Files are processed by a bounded pool of workers, every worker writes
// into its own result slot and results are merged in file-name order
// after all workers finish.
package ioassemble

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

type assembler struct {
	cfg     *config.Config
	builder lifecycle.Builder
}

// New creates an Assembler that uses b for every file.
func New(cfg *config.Config, b lifecycle.Builder) lifecycle.Assembler {
	return &assembler{cfg: cfg, builder: b}
}

// Assemble processes all CSV files of dir. An empty directory gives an
// empty catalog and an empty report.
func (a *assembler) Assemble(
	ctx context.Context,
	dir, database string,
) (*catalog.Catalog, *catalog.Report, error) {
	paths, err := ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Assembling catalog",
		"dir", dir,
		"database", database,
		"files", len(paths),
	)
	cat, rep := a.AssembleFiles(ctx, paths, database)
	return cat, rep, nil
}

// ListFiles returns paths of CSV files in dir sorted by file name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ReadDirError(dir, err)
	}

	var res []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		res = append(res, filepath.Join(dir, e.Name()))
	}
	sort.Slice(res, func(i, j int) bool {
		return filepath.Base(res[i]) < filepath.Base(res[j])
	})
	return res, nil
}

// AssembleFiles processes the given files. If ctx is cancelled, files
// that did not start yet are recorded as failures with the context error.
func (a *assembler) AssembleFiles(
	ctx context.Context,
	paths []string,
	database string,
) (*catalog.Catalog, *catalog.Report) {
	start := time.Now()
	results := make([]catalog.FileResult, len(paths))

	var bar *pb.ProgressBar
	if a.cfg.Catalog.WithProgress && len(paths) > 0 {
		bar = newProgressBar(len(paths), "Files: ")
	}

	jobs := a.cfg.JobsNumber
	if jobs < 1 {
		jobs = 1
	}
	var g errgroup.Group
	g.SetLimit(jobs)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results[i] = cancelled(path, err)
			continue
		}
		g.Go(func() error {
			results[i] = a.builder.Build(path, database)
			if bar != nil {
				bar.Increment()
			}
			// file failures are data, they never stop the group
			return nil
		})
	}
	_ = g.Wait()

	if bar != nil {
		bar.Finish()
	}

	cat := catalog.New()
	rep := &catalog.Report{}
	for _, res := range results {
		rep.Add(res)
		if res.State == catalog.Done {
			cat.Add(res)
		}
	}

	summary(database, cat, rep, time.Since(start))
	return cat, rep
}

func cancelled(path string, err error) catalog.FileResult {
	return catalog.FileResult{
		Path:  path,
		File:  filepath.Base(path),
		State: catalog.Errored,
		Stage: catalog.Loaded,
		Err:   CancelledError(err),
	}
}

func summary(
	database string,
	cat *catalog.Catalog,
	rep *catalog.Report,
	dur time.Duration,
) {
	slog.Info("Catalog assembled",
		"database", database,
		"processed", rep.Processed,
		"failed", len(rep.Failures),
		"skipped", len(rep.Skipped),
		"series", cat.Len(),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	for _, f := range rep.Failures {
		slog.Warn("File failed",
			"file", f.File,
			"stage", f.Stage.String(),
			"error", f.Err,
		)
	}

	gn.Info(`Catalog <em>%s</em> assembled
Files processed: %d, failed %d, skipped %d.
Series: %s. Elapsed time: <em>%s</em>`,
		database,
		rep.Processed,
		len(rep.Failures),
		len(rep.Skipped),
		humanize.Comma(int64(cat.Len())),
		gnfmt.TimeString(dur.Seconds()),
	)
	if n := len(rep.DateWarnings); n > 0 {
		gn.Warn("%d file(s) have unparsable dates, see the log", n)
	}
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
