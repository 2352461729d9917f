package ioload_test

import (
	"context"
	"testing"
	"time"

	"github.com/gnames/bdeseries/internal/iodb"
	"github.com/gnames/bdeseries/internal/ioload"
	"github.com/gnames/bdeseries/internal/ioschema"
	"github.com/gnames/bdeseries/internal/iotesting"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(db string) *catalog.Catalog {
	jan := dates.NewDate(2020, time.January, 31)
	feb := dates.NewDate(2020, time.February, 29)
	file := db + "0101.csv"
	cat := catalog.New()
	cat.Add(catalog.FileResult{
		File:  file,
		State: catalog.Done,
		Descriptors: []series.Descriptor{
			{Name: "A", File: file, FirstDate: jan, LastDate: feb,
				Count: 2, Database: db},
			{Name: "B", File: file, FirstDate: feb, LastDate: feb,
				Count: 1, Database: db},
		},
		Observations: &catalog.Observations{
			Database: db,
			File:     file,
			Series:   []string{"A", "B"},
			Dates:    []dates.Date{jan, feb},
			Values:   [][]string{{"1", "_"}, {"2", "3"}},
		},
	})
	return cat
}

func TestExportNotConnected(t *testing.T) {
	l := ioload.New(config.New(), iodb.NewPgxOperator())
	err := l.Export(context.Background(), catalog.New())
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	cfg.Update([]config.Option{
		config.OptCatalogWithObservations(true),
		config.OptCatalogWithProgress(false),
		config.OptDatabaseBatchSize(2),
	})

	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()
	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))

	l := ioload.New(cfg, op)
	require.NoError(t, l.Export(ctx, testCatalog("be")))
	require.NoError(t, l.Export(ctx, testCatalog("cf")))
	// loading be again replaces its rows
	require.NoError(t, l.Export(ctx, testCatalog("be")))

	pool := op.Pool()
	var n int
	err := pool.QueryRow(ctx, "SELECT count(*) FROM series").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	err = pool.QueryRow(ctx, "SELECT count(*) FROM observations").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	var first time.Time
	err = pool.QueryRow(ctx,
		`SELECT first_observation_date FROM series
		WHERE database = 'be' AND name = 'A'`).Scan(&first)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-31", first.Format(time.DateOnly))

	err = pool.QueryRow(ctx,
		"SELECT series_count FROM databases WHERE tag = 'cf'").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
