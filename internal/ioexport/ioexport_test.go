package ioexport_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/gnames/bdeseries/internal/ioexport"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testCatalog() *catalog.Catalog {
	jan := dates.NewDate(2020, 1, 31)
	feb := dates.NewDate(2020, 2, 29)
	cat := catalog.New()
	cat.Add(catalog.FileResult{
		File:  "be0101.csv",
		State: catalog.Done,
		Descriptors: []series.Descriptor{
			{
				Name: "A", Number: "1", File: "be0101.csv", Alias: "Depósitos",
				Description: "Depósitos", FirstDate: jan, LastDate: feb,
				Count: 2, Source: "Banco de España", Database: "be",
			},
			{Name: "B", File: "be0101.csv", Count: 0, Database: "be"},
		},
		Observations: &catalog.Observations{
			Database: "be",
			File:     "be0101.csv",
			Grammar:  dates.MonthYear,
			Series:   []string{"A", "B"},
			Dates:    []dates.Date{jan, feb},
			Values:   [][]string{{"1.5", "_"}, {"2.5", ""}},
		},
	})
	return cat
}

func newConfig(format string, withObs bool) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptCatalogFormat(format),
		config.OptCatalogWithObservations(withObs),
	})
	return cfg
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogo_be.csv")

	exp := ioexport.New(newConfig("csv", true), path)
	require.NoError(t, exp.Export(context.Background(), testCatalog()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, series.Columns, recs[0])
	assert.Equal(t, "A", recs[1][0])
	assert.Equal(t, "Depósitos", recs[1][4])
	assert.Equal(t, "2020-01-31", recs[1][11])
	assert.Equal(t, "2020-02-29", recs[1][12])
	assert.Equal(t, "2", recs[1][13])
	assert.Equal(t, "", recs[2][11], "no observations, no dates")
	assert.Equal(t, "be", recs[2][17])

	_, err = os.Stat(filepath.Join(dir, ioexport.ObservationsDir, "be", "be0101.parquet"))
	assert.NoError(t, err)
}

func TestExportSameFileInTwoDatabases(t *testing.T) {
	dir := t.TempDir()
	cat := testCatalog()
	other := testCatalog()
	for i := range other.Descriptors {
		other.Descriptors[i].Database = "cf"
	}
	other.Observations[0].Database = "cf"
	other.Observations[0].Values[0][0] = "99"
	cat.Merge(other)

	exp := ioexport.New(newConfig("csv", true), filepath.Join(dir, "catalogo.csv"))
	require.NoError(t, exp.Export(context.Background(), cat))

	assert.NotEqual(t, cat.Descriptors[0].Key(), cat.Descriptors[2].Key())
	for _, db := range []string{"be", "cf"} {
		path := filepath.Join(dir, ioexport.ObservationsDir, db, "be0101.parquet")
		assert.FileExists(t, path)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogo.json")
	cat := testCatalog()
	exp := ioexport.New(newConfig("json", false), path)
	require.NoError(t, exp.Export(context.Background(), cat))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var res []map[string]any
	enc := gnfmt.GNjson{}
	require.NoError(t, enc.Decode(data, &res))
	require.Len(t, res, 2)
	assert.Equal(t, cat.Descriptors[0].Key().String(), res[0]["id"])
	assert.Equal(t, "2020-01-31", res[0]["first_observation_date"])
	assert.Equal(t, float64(2), res[0]["observation_count"])

	_, err = os.Stat(filepath.Join(filepath.Dir(path), ioexport.ObservationsDir))
	assert.True(t, os.IsNotExist(err))
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogo.xlsx")
	exp := ioexport.New(newConfig("xlsx", false), path)
	require.NoError(t, exp.Export(context.Background(), testCatalog()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("catalogo")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "observation_count", rows[0][13])
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "2", rows[1][13])
}

func TestExportSQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogo.sqlite")
	exp := ioexport.New(newConfig("sqlite", true), path)
	require.NoError(t, exp.Export(context.Background(), testCatalog()))

	_, err := os.Stat(path)
	require.NoError(t, err)
	// observations are stored inside the database
	_, err = os.Stat(filepath.Join(dir, ioexport.ObservationsDir))
	assert.True(t, os.IsNotExist(err))
}

func TestExportUnknownFormat(t *testing.T) {
	cfg := newConfig("csv", false)
	cfg.Catalog.Format = "parquet"
	exp := ioexport.New(cfg, filepath.Join(t.TempDir(), "x"))
	err := exp.Export(context.Background(), testCatalog())
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExportFormatError, gnErr.Code)
}

func TestWriteParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "be0101.parquet")
	cat := testCatalog()
	require.NoError(t, ioexport.WriteParquet(path, cat.Observations[0]))

	pf, err := file.OpenParquetFile(path, false)
	require.NoError(t, err)
	defer pf.Close()

	rdr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	require.NoError(t, err)
	tbl, err := rdr.ReadTable(context.Background())
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, int64(2), tbl.NumRows())
	assert.Equal(t, int64(3), tbl.NumCols())
	assert.Equal(t, "date", tbl.Schema().Field(0).Name)
	assert.Equal(t, arrow.DATE32, tbl.Schema().Field(0).Type.ID())
	assert.Equal(t, "B", tbl.Schema().Field(2).Name)

	dateCol := tbl.Column(0).Data().Chunk(0).(*array.Date32)
	assert.Equal(t, "2020-01-31", dateCol.Value(0).ToTime().Format("2006-01-02"))

	bCol := tbl.Column(2).Data().Chunk(0)
	assert.Equal(t, 2, bCol.NullN(), "missing values are nulls")

	aCol := tbl.Column(1).Data().Chunk(0).(*array.String)
	assert.Equal(t, "2.5", aCol.Value(1))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "be0101.parquet", ioexport.ParquetName("be0101.csv"))
	assert.Equal(t, filepath.Join("cf", "be0101.parquet"),
		ioexport.ParquetPath(&catalog.Observations{Database: "cf", File: "be0101.csv"}))
	assert.Equal(t, ".sqlite", ioexport.Ext("sqlite"))
	assert.Equal(t, ".json", ioexport.Ext("json"))
	assert.Equal(t, ".csv", ioexport.Ext(""))
}
