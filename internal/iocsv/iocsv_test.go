package iocsv_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/bdeseries/internal/iocsv"
	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/bdeseries/pkg/table"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) []byte {
	res, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return res
}

func TestRead(t *testing.T) {
	src := `"NOMBRE DE LA SERIE",  "BE_1_1.1","BE_1_1.2","BE_1_1.1"
"DESCRIPCIÓN DE LA SERIE","Años de vida","Euros","dup"
"ENE 2020","1,5","2","9"
"FEB 2020",_
`
	tbl, err := iocsv.Read(bytes.NewReader(latin1(t, src)), "be.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"NOMBRE DE LA SERIE", "BE_1_1.1", "BE_1_1.2"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "DESCRIPCIÓN DE LA SERIE", tbl.Rows[0].Label)
	assert.Equal(t, []string{"Años de vida", "Euros"}, tbl.Rows[0].Values)
	assert.Equal(t, []string{"1,5", "2"}, tbl.Rows[1].Values)
	assert.Equal(t, []string{"_", ""}, tbl.Rows[2].Values)
}

func TestReadEmpty(t *testing.T) {
	_, err := iocsv.Read(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StructuralError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, table.ErrNoColumns)
}

func TestReadBadQuotes(t *testing.T) {
	src := "FECHA,A\n2020,1\"x\n"
	tbl, err := iocsv.Read(strings.NewReader(src), "lazy.csv")
	// LazyQuotes accepts a stray quote in a bare field
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "be0101.csv")
	err := os.WriteFile(path, latin1(t, "FECHA,A\n2020,1\n2021,2\n"), 0644)
	require.NoError(t, err)

	tbl, err := iocsv.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2020", "2021"}, tbl.Labels())

	_, err = iocsv.Load(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
}
