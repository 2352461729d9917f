// Package iocsv loads Banco de España CSV exports into raw tables.
//
// The files are encoded in ISO-8859-1. The first record is the header,
// its first cell names the row label column.
package iocsv

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/gnames/bdeseries/pkg/table"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Load opens a file, decodes it and returns its raw table. The file is
// closed before Load returns.
func Load(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer f.Close()

	return Read(f, path)
}

// Read decodes ISO-8859-1 CSV content from r. The name is used only for
// error messages.
func Read(r io.Reader, name string) (*table.Table, error) {
	dec := transform.NewReader(r, charmap.ISO8859_1.NewDecoder())

	cr := csv.NewReader(dec)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, StructuralError(name, table.ErrNoColumns)
	}
	if err != nil {
		return nil, DecodeError(name, err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, DecodeError(name, err)
	}

	res, err := table.New(header, records)
	if err != nil {
		return nil, StructuralError(name, err)
	}
	return res, nil
}
