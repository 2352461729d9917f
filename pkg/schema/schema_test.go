package schema_test

import (
	"sync"
	"testing"

	"github.com/gnames/bdeseries/pkg/schema"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormschema "gorm.io/gorm/schema"
)

func parse(t *testing.T, model any) *gormschema.Schema {
	t.Helper()
	s, err := gormschema.Parse(model, &sync.Map{}, gormschema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		model any
		table string
	}{
		{&schema.Series{}, "series"},
		{&schema.Observation{}, "observations"},
		{&schema.Database{}, "databases"},
		{&schema.SchemaVersion{}, "schema_versions"},
	}

	var names []string
	for _, v := range tests {
		s := parse(t, v.model)
		assert.Equal(t, v.table, s.Table)
		names = append(names, v.table)
	}
	assert.Equal(t, names, schema.TableNames())
}

func TestSeriesColumns(t *testing.T) {
	s := parse(t, &schema.Series{})
	assert.Equal(t, schema.SeriesColumns(), s.DBNames)

	// every catalog column has a home in the series table
	assert.Equal(t, series.Columns, schema.SeriesColumns()[1:])

	pk := s.PrioritizedPrimaryField
	require.NotNil(t, pk)
	assert.Equal(t, "id", pk.DBName)
}

func TestObservationColumns(t *testing.T) {
	s := parse(t, &schema.Observation{})
	assert.Equal(t, schema.ObservationColumns(), s.DBNames)
	assert.Len(t, s.PrimaryFields, 2)
}

func TestAllModels(t *testing.T) {
	assert.Len(t, schema.AllModels(), 4)
}
