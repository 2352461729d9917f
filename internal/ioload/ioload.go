// Package ioload loads a catalog into PostgreSQL. Rows of every database
// tag in the catalog replace the rows loaded for that tag before, inside
// one transaction per database. Other databases are not touched.
package ioload

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/db"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/bdeseries/pkg/schema"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type loader struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates an Exporter that writes the catalog into the database of
// a connected operator. The schema has to exist already.
func New(cfg *config.Config, op db.Operator) lifecycle.Exporter {
	return &loader{cfg: cfg, operator: op}
}

// stats are counts of one loaded database.
type stats struct {
	files, series, observations int
}

func (l *loader) Export(ctx context.Context, cat *catalog.Catalog) error {
	pool := l.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	timeStart := time.Now()
	groups := cat.ByDatabase()
	tags := slices.Sorted(maps.Keys(groups))

	for _, tag := range tags {
		obs := observationsOf(cat, groups[tag])
		tx, err := pool.Begin(ctx)
		if err != nil {
			return LoadError(tag, "begin", err)
		}
		st, err := l.loadDatabase(ctx, tx, tag, groups[tag], obs)
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		if err = tx.Commit(ctx); err != nil {
			return LoadError(tag, "commit", err)
		}

		slog.Info("Database loaded",
			"database", tag,
			"files", st.files,
			"series", st.series,
			"observations", st.observations,
		)
		gn.Info(
			"Loaded <em>%s</em>: %s series, %s observations",
			tag,
			humanize.Comma(int64(st.series)),
			humanize.Comma(int64(st.observations)),
		)
	}

	dur := float64(time.Since(timeStart)) / float64(time.Second)
	gn.Info("Load took %s", gnfmt.TimeString(dur))
	return nil
}

func (l *loader) loadDatabase(
	ctx context.Context,
	tx pgx.Tx,
	tag string,
	ds []series.Descriptor,
	obs []*catalog.Observations,
) (stats, error) {
	var st stats

	if err := clearDatabase(ctx, tx, tag); err != nil {
		return st, err
	}

	rows, files := seriesRows(ds)
	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"series"},
		schema.SeriesColumns(),
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return st, CopyError("series", tag, err)
	}
	st.series = int(n)
	st.files = files

	if l.cfg.Catalog.WithObservations {
		st.observations, err = l.copyObservations(ctx, tx, tag, obs)
		if err != nil {
			return st, err
		}
	}

	q := `
INSERT INTO databases
	(tag, file_count, series_count, observation_count, loaded_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (tag) DO UPDATE SET
	file_count = EXCLUDED.file_count,
	series_count = EXCLUDED.series_count,
	observation_count = EXCLUDED.observation_count,
	loaded_at = EXCLUDED.loaded_at`
	_, err = tx.Exec(ctx, q,
		tag, st.files, st.series, st.observations, time.Now())
	if err != nil {
		return st, LoadError(tag, "databases", err)
	}
	return st, nil
}

// clearDatabase removes rows loaded for the database tag before.
func clearDatabase(ctx context.Context, tx pgx.Tx, tag string) error {
	q := `
DELETE FROM observations
WHERE series_id IN (SELECT id FROM series WHERE database = $1)`
	if _, err := tx.Exec(ctx, q, tag); err != nil {
		return LoadError(tag, "clear observations", err)
	}
	q = `DELETE FROM series WHERE database = $1`
	if _, err := tx.Exec(ctx, q, tag); err != nil {
		return LoadError(tag, "clear series", err)
	}
	return nil
}

// seriesRows converts descriptors to CopyFrom rows. A repeated column of
// the same file has the same key; only the first one is kept.
func seriesRows(ds []series.Descriptor) ([][]any, int) {
	seen := make(map[string]struct{}, len(ds))
	files := make(map[string]struct{})
	res := make([][]any, 0, len(ds))
	for _, d := range ds {
		id := d.Key().String()
		if _, ok := seen[id]; ok {
			slog.Warn("Duplicate series skipped", "file", d.File, "name", d.Name)
			continue
		}
		seen[id] = struct{}{}
		files[d.File] = struct{}{}
		res = append(res, []any{
			id, d.Name, d.Number, d.Alias, d.File, d.Description, d.Type,
			d.Units, d.Exponent, d.Decimals, d.UnitsDescription, d.Frequency,
			pgtype.Date{Time: d.FirstDate.Time, Valid: d.FirstDate.Valid},
			pgtype.Date{Time: d.LastDate.Time, Valid: d.LastDate.Valid},
			d.Count, d.Title, d.Source, d.Notes, d.Database,
		})
	}
	return res, len(files)
}

// observationsOf returns observation tables of the files that produced
// the descriptors.
func observationsOf(
	cat *catalog.Catalog,
	ds []series.Descriptor,
) []*catalog.Observations {
	type source struct{ database, file string }
	files := make(map[source]struct{})
	for _, d := range ds {
		files[source{d.Database, d.File}] = struct{}{}
	}
	var res []*catalog.Observations
	for _, o := range cat.Observations {
		if _, ok := files[source{o.Database, o.File}]; ok {
			res = append(res, o)
		}
	}
	return res
}

// copyObservations sends non-missing values in batches of
// cfg.Database.BatchSize rows.
func (l *loader) copyObservations(
	ctx context.Context,
	tx pgx.Tx,
	tag string,
	obs []*catalog.Observations,
) (int, error) {
	batchSize := l.cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = 50_000
	}

	var total int
	for _, o := range obs {
		total += o.Len()
	}
	var bar *pb.ProgressBar
	if l.cfg.Catalog.WithProgress && total > 0 {
		bar = newProgressBar(total, "Observations "+tag+": ")
		defer bar.Finish()
	}

	var count int
	batch := make([][]any, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"observations"},
			schema.ObservationColumns(),
			pgx.CopyFromRows(batch),
		)
		if err != nil {
			return CopyError("observations", tag, err)
		}
		count += int(n)
		batch = batch[:0]
		return nil
	}

	for _, o := range obs {
		rows := observationRows(o)
		for _, row := range rows {
			batch = append(batch, row)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return count, err
				}
			}
		}
		if bar != nil {
			bar.Add(o.Len())
		}
	}
	if err := flush(); err != nil {
		return count, err
	}
	return count, nil
}

// observationRows converts one observation table to CopyFrom rows.
// Missing values are not stored. For a repeated date only the first value
// of a series is kept.
func observationRows(o *catalog.Observations) [][]any {
	ids := make([]string, len(o.Series))
	for j, name := range o.Series {
		ids[j] = o.Key(name).String()
	}

	type key struct {
		id   string
		date time.Time
	}
	seen := make(map[key]struct{})
	var res [][]any
	for i, d := range o.Dates {
		if !d.Valid {
			continue
		}
		for j, v := range o.Values[i] {
			if j >= len(ids) || series.IsMissing(v) {
				continue
			}
			k := key{id: ids[j], date: d.Time}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			res = append(res, []any{
				ids[j],
				pgtype.Date{Time: d.Time, Valid: true},
				v,
			})
		}
	}
	return res
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
