// Package ioexport writes a finished catalog to disk. The catalog table
// can be written as CSV, JSON, XLSX or SQLite. Observation tables of
// source files can be written as Parquet next to the catalog.
package ioexport

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/bdeseries/internal/iosqlite"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/gnames/gnfmt"
	"github.com/xuri/excelize/v2"
)

// ObservationsDir is the subdirectory of Parquet observation tables.
const ObservationsDir = "observations"

type exporter struct {
	cfg  *config.Config
	path string
}

// New creates an Exporter that writes the catalog to path in the
// format of cfg.Catalog.Format.
func New(cfg *config.Config, path string) lifecycle.Exporter {
	return &exporter{cfg: cfg, path: path}
}

// Ext returns the file extension of a catalog format.
func Ext(format string) string {
	switch format {
	case "sqlite":
		return ".sqlite"
	case "json", "xlsx":
		return "." + format
	default:
		return ".csv"
	}
}

func (e *exporter) Export(ctx context.Context, cat *catalog.Catalog) error {
	var err error
	format := e.cfg.Catalog.Format
	withObs := e.cfg.Catalog.WithObservations

	switch format {
	case "csv":
		err = writeCSV(e.path, cat)
	case "json":
		err = writeJSON(e.path, cat)
	case "xlsx":
		err = writeXLSX(e.path, cat)
	case "sqlite":
		// observations go into the same database file
		err = iosqlite.Write(ctx, e.path, cat, withObs)
		withObs = false
	default:
		return FormatError(format)
	}
	if err != nil {
		return err
	}
	slog.Info("Catalog written",
		"path", e.path,
		"format", format,
		"series", cat.Len(),
	)

	if !withObs {
		return nil
	}

	dir := filepath.Join(filepath.Dir(e.path), ObservationsDir)
	for _, o := range cat.Observations {
		if err = ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, ParquetPath(o))
		if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return WriteError(filepath.Dir(path), err)
		}
		if err = WriteParquet(path, o); err != nil {
			return err
		}
	}
	slog.Info("Observation tables written",
		"dir", dir,
		"files", len(cat.Observations),
	)
	return nil
}

// ParquetName returns the Parquet file name for a source file.
func ParquetName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".parquet"
}

// ParquetPath returns the location of an observation table relative to
// ObservationsDir. Tables are grouped by database, so equal file names of
// different databases do not overwrite each other.
func ParquetPath(o *catalog.Observations) string {
	return filepath.Join(o.Database, ParquetName(o.File))
}

func writeCSV(path string, cat *catalog.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write(series.Columns); err != nil {
		return WriteError(path, err)
	}
	for _, d := range cat.Descriptors {
		if err = w.Write(d.Record()); err != nil {
			return WriteError(path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return WriteError(path, err)
	}
	if err = f.Close(); err != nil {
		return WriteError(path, err)
	}
	return nil
}

// entry is the JSON form of a catalog row.
type entry struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Number               string `json:"number"`
	Alias                string `json:"alias"`
	File                 string `json:"file"`
	Description          string `json:"description"`
	Type                 string `json:"type"`
	Units                string `json:"units"`
	Exponent             string `json:"exponent"`
	Decimals             string `json:"decimals"`
	UnitsDescription     string `json:"units_description"`
	Frequency            string `json:"frequency"`
	FirstObservationDate string `json:"first_observation_date"`
	LastObservationDate  string `json:"last_observation_date"`
	ObservationCount     int    `json:"observation_count"`
	Title                string `json:"title"`
	Source               string `json:"source"`
	Notes                string `json:"notes"`
	Database             string `json:"database"`
}

func newEntry(d series.Descriptor) entry {
	return entry{
		ID:                   d.Key().String(),
		Name:                 d.Name,
		Number:               d.Number,
		Alias:                d.Alias,
		File:                 d.File,
		Description:          d.Description,
		Type:                 d.Type,
		Units:                d.Units,
		Exponent:             d.Exponent,
		Decimals:             d.Decimals,
		UnitsDescription:     d.UnitsDescription,
		Frequency:            d.Frequency,
		FirstObservationDate: d.FirstDate.String(),
		LastObservationDate:  d.LastDate.String(),
		ObservationCount:     d.Count,
		Title:                d.Title,
		Source:               d.Source,
		Notes:                d.Notes,
		Database:             d.Database,
	}
}

func writeJSON(path string, cat *catalog.Catalog) error {
	entries := make([]entry, len(cat.Descriptors))
	for i, d := range cat.Descriptors {
		entries[i] = newEntry(d)
	}

	enc := gnfmt.GNjson{Pretty: true}
	res, err := enc.Encode(entries)
	if err != nil {
		return WriteError(path, err)
	}
	if err = os.WriteFile(path, res, 0644); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func writeXLSX(path string, cat *catalog.Catalog) error {
	sheet := "catalogo"
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return WriteError(path, err)
	}

	header := make([]any, len(series.Columns))
	for i, c := range series.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return WriteError(path, err)
	}

	for i, d := range cat.Descriptors {
		rec := d.Record()
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
			if series.Columns[j] == "observation_count" {
				row[j] = d.Count
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return WriteError(path, err)
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return WriteError(path, err)
		}
	}

	err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return WriteError(path, err)
	}

	if err = f.SaveAs(path); err != nil {
		return WriteError(path, err)
	}
	return nil
}
