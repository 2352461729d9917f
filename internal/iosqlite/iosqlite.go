// Package iosqlite stores a catalog in a single SQLite file.
package iosqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/series"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// Write creates a fresh SQLite database at path with a series table and,
// if withObs is true, an observations table in long format.
func Write(
	ctx context.Context,
	path string,
	cat *catalog.Catalog,
	withObs bool,
) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return WriteError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return WriteError(path, err)
	}
	defer db.Close()

	if _, err = db.ExecContext(ctx, ddl(withObs)); err != nil {
		return WriteError(path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return WriteError(path, err)
	}
	defer tx.Rollback()

	if err = insertSeries(ctx, tx, cat.Descriptors); err != nil {
		return WriteError(path, err)
	}
	if withObs {
		if err = insertObservations(ctx, tx, cat.Observations); err != nil {
			return WriteError(path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func ddl(withObs bool) string {
	cols := make([]string, len(series.Columns))
	for i, c := range series.Columns {
		typ := "TEXT"
		if c == "observation_count" {
			typ = "INTEGER"
		}
		cols[i] = fmt.Sprintf("  %s %s", c, typ)
	}
	res := "CREATE TABLE series (\n  id TEXT PRIMARY KEY,\n" +
		strings.Join(cols, ",\n") + "\n);\n" +
		"CREATE INDEX idx_series_name ON series (name);\n" +
		"CREATE INDEX idx_series_database ON series (database);\n"
	if withObs {
		res += `CREATE TABLE observations (
  series_id TEXT NOT NULL,
  date TEXT NOT NULL,
  value TEXT
);
CREATE INDEX idx_observations_series ON observations (series_id);
`
	}
	return res
}

func insertSeries(
	ctx context.Context,
	tx *sql.Tx,
	ds []series.Descriptor,
) error {
	ph := strings.Repeat(", ?", len(series.Columns))
	q := fmt.Sprintf(
		"INSERT INTO series (id, %s) VALUES (?%s)",
		strings.Join(series.Columns, ", "), ph,
	)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range ds {
		rec := d.Record()
		args := make([]any, 0, len(rec)+1)
		args = append(args, d.Key().String())
		for i, v := range rec {
			if series.Columns[i] == "observation_count" {
				args = append(args, d.Count)
				continue
			}
			args = append(args, v)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("series %s of %s: %w", d.Name, d.File, err)
		}
	}
	return nil
}

func insertObservations(
	ctx context.Context,
	tx *sql.Tx,
	obs []*catalog.Observations,
) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO observations (series_id, date, value) VALUES (?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range obs {
		keys := make([]string, len(o.Series))
		for j, name := range o.Series {
			keys[j] = o.Key(name).String()
		}
		for i, d := range o.Dates {
			for j, v := range o.Values[i] {
				if series.IsMissing(v) {
					continue
				}
				_, err = stmt.ExecContext(ctx, keys[j], d.String(), v)
				if err != nil {
					return fmt.Errorf("observations of %s: %w", o.File, err)
				}
			}
		}
	}
	return nil
}
