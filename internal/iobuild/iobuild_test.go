package iobuild_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/bdeseries/internal/iobuild"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const monthly = `"NOMBRE DE LA SERIE","A"
"NUMERO SECUENCIAL","1"
"ALIAS DE LA SERIE","Depósitos de hogares"
"DESCRIPCIÓN DE LA SERIE","Euros"
"DESCRIPCIÓN DE LAS UNIDADES","Miles de euros"
"FRECUENCIA","MENSUAL"
"FUENTE","Banco de España"
"ENE 2020","10"
"FEB 2020","11"
"MAR 2020","12"
`

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(content))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestBuildEndToEnd(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "be0101.csv", monthly)
	b := iobuild.New(config.New())

	res := b.Build(path, "be")
	require.NoError(t, res.Err)
	assert.Equal(t, catalog.Done, res.State)
	assert.Equal(t, "be0101.csv", res.File)
	assert.Empty(t, res.Unparsable)
	assert.Empty(t, res.Unclassified)

	require.Len(t, res.Descriptors, 1)
	d := res.Descriptors[0]
	assert.Equal(t, "A", d.Name)
	assert.Equal(t, d.Alias, d.Description)
	assert.Equal(t, "Depósitos de hogares", d.Description)
	assert.Equal(t, "2020-01-31", d.FirstDate.String())
	assert.Equal(t, "2020-03-31", d.LastDate.String())
	assert.Equal(t, 3, d.Count)
	assert.Equal(t, "be", d.Database)

	require.NotNil(t, res.Observations)
	assert.Equal(t, dates.MonthYear, res.Observations.Grammar)
	assert.Equal(t, 3, res.Observations.Len())
	assert.Equal(t, []string{"A"}, res.Observations.Series)
	assert.Equal(t, []string{"12"}, res.Observations.Values[2])
}

func TestBuildUnparsableDate(t *testing.T) {
	src := `"NOMBRE DE LA SERIE","A","B"
"ALIAS DE LA SERIE","x","y"
"05 ENE 2020","1","2"
"13 XYZ 2020","3","4"
"20 ENE 2020","5","_"
`
	path := writeCSV(t, t.TempDir(), "be0202.csv", src)
	res := iobuild.New(config.New()).Build(path, "be")
	require.NoError(t, res.Err)
	assert.Equal(t, catalog.Done, res.State)

	require.Len(t, res.Unparsable, 1)
	assert.Equal(t, "13 XYZ 2020", res.Unparsable[0].Label)

	require.Len(t, res.Descriptors, 2)
	a := res.Descriptors[0]
	assert.Equal(t, "2020-01-05", a.FirstDate.String())
	assert.Equal(t, "2020-01-20", a.LastDate.String())
	assert.Equal(t, 2, a.Count, "undated row is not counted")
	assert.Equal(t, 1, res.Descriptors[1].Count)

	// observation table keeps dated rows only
	assert.Equal(t, 2, res.Observations.Len())

	var r catalog.Report
	r.Add(res)
	assert.Len(t, r.DateWarnings, 1)
}

func TestBuildMixedGrammars(t *testing.T) {
	src := `"FECHA","A"
"2019","1"
"ENE 2020","2"
`
	path := writeCSV(t, t.TempDir(), "mixed.csv", src)
	res := iobuild.New(config.New()).Build(path, "be")

	assert.Equal(t, catalog.Errored, res.State)
	assert.Equal(t, catalog.Split, res.Stage)
	assert.Nil(t, res.Descriptors)

	gnErr, ok := res.Err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DateFormatError, gnErr.Code)

	var fe *dates.FormatError
	require.ErrorAs(t, gnErr.Err, &fe)
	assert.Len(t, fe.Matched, 2)
	assert.Equal(t, []bool{true, false}, fe.Masks[dates.Year])
}

func TestBuildSingleDateRow(t *testing.T) {
	src := "FECHA,A\nALIAS DE LA SERIE,x\n2021,7\n"
	path := writeCSV(t, t.TempDir(), "one.csv", src)
	res := iobuild.New(config.New()).Build(path, "cf")
	require.NoError(t, res.Err)
	require.Len(t, res.Descriptors, 1)
	assert.Equal(t, "2021-01-01", res.Descriptors[0].FirstDate.String())
	assert.Equal(t, "cf", res.Descriptors[0].Database)
}

func TestBuildStructural(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty file", func(t *testing.T) {
		path := writeCSV(t, dir, "empty.csv", "")
		res := iobuild.New(config.New()).Build(path, "be")
		assert.Equal(t, catalog.Errored, res.State)
		assert.Equal(t, catalog.Loaded, res.Stage)
		gnErr, ok := res.Err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.StructuralError, gnErr.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		res := iobuild.New(config.New()).Build(filepath.Join(dir, "no.csv"), "be")
		assert.Equal(t, catalog.Errored, res.State)
		assert.Error(t, res.Err)
	})
}

func TestBuildSkipsArtifacts(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "catalogo_be.csv", monthly)
	res := iobuild.New(config.New()).Build(path, "be")
	assert.Equal(t, catalog.Skipped, res.State)
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Descriptors)

	// marker is case-sensitive
	path = writeCSV(t, t.TempDir(), "CATALOGO.csv", monthly)
	res = iobuild.New(config.New()).Build(path, "be")
	assert.Equal(t, catalog.Done, res.State)
}

func TestIsArtifact(t *testing.T) {
	assert.True(t, iobuild.IsArtifact("catalogo_cf.csv", "catalogo"))
	assert.False(t, iobuild.IsArtifact("be0101.csv", "catalogo"))
	assert.False(t, iobuild.IsArtifact("be0101.csv", ""))
}
