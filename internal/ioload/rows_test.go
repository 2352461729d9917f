package ioload

import (
	"testing"
	"time"

	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesRows(t *testing.T) {
	ds := []series.Descriptor{
		{
			Name:      "A",
			File:      "be0101.csv",
			FirstDate: dates.NewDate(2020, time.January, 31),
			LastDate:  dates.NewDate(2020, time.March, 31),
			Count:     3,
			Database:  "be",
		},
		{Name: "A", File: "be0101.csv", Database: "be"},
		{Name: "B", File: "be0102.csv", Database: "be"},
	}

	rows, files := seriesRows(ds)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, files)

	row := rows[0]
	assert.Len(t, row, 19)
	assert.Equal(t, ds[0].Key().String(), row[0])
	assert.Equal(t,
		pgtype.Date{Time: ds[0].FirstDate.Time, Valid: true}, row[12])
	assert.Equal(t, 3, row[14])
	assert.Equal(t, "be", row[18])

	// undated series get NULL dates
	assert.False(t, rows[1][12].(pgtype.Date).Valid)
}

func TestObservationRows(t *testing.T) {
	jan := dates.NewDate(2020, time.January, 31)
	feb := dates.NewDate(2020, time.February, 29)
	o := &catalog.Observations{
		Database: "be",
		File:     "be0101.csv",
		Series:   []string{"A", "B"},
		Dates:    []dates.Date{jan, feb, feb},
		Values: [][]string{
			{"1.5", "_"},
			{"", "2"},
			{"9", "3"},
		},
	}

	rows := observationRows(o)
	// jan/A, feb/B, feb/A (first value of A at feb is missing)
	require.Len(t, rows, 3)

	a := series.Descriptor{Database: "be", File: "be0101.csv", Name: "A"}
	idA := a.Key().String()
	idB := o.Key("B").String()
	assert.NotEqual(t, series.Key("cf", "be0101.csv", "A").String(), idA)
	assert.Equal(t, []any{idA, pgtype.Date{Time: jan.Time, Valid: true}, "1.5"},
		rows[0])
	assert.Equal(t, idB, rows[1][0])
	assert.Equal(t, "2", rows[1][2])
	assert.Equal(t, idA, rows[2][0])
	assert.Equal(t, "9", rows[2][2])
}

func TestObservationsOf(t *testing.T) {
	cat := catalog.New()
	cat.Observations = []*catalog.Observations{
		{Database: "be", File: "be0101.csv"},
		{Database: "cf", File: "cf0101.csv"},
		// same file name in another database
		{Database: "cf", File: "be0101.csv"},
	}
	ds := []series.Descriptor{{File: "be0101.csv", Database: "cf"}}

	res := observationsOf(cat, ds)
	require.Len(t, res, 1)
	assert.Equal(t, "cf", res[0].Database)
	assert.Equal(t, "be0101.csv", res[0].File)
}
