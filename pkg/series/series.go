// Package series extracts per-column series descriptors from the metadata
// and observation rows of a source table.
package series

import (
	"strconv"

	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
)

// Descriptor describes one series: one data column of one source file.
// Type, Exponent, Decimals, Title and Notes are carried by the catalog
// schema but are not populated from the source format.
type Descriptor struct {
	Name             string
	Number           string
	Alias            string
	File             string
	Description      string
	Type             string
	Units            string
	Exponent         string
	Decimals         string
	UnitsDescription string
	Frequency        string
	FirstDate        dates.Date
	LastDate         dates.Date
	Count            int
	Title            string
	Source           string
	Notes            string
	Database         string
}

// Key returns a UUID v5 built from the database tag, the file and the
// column name. Column names repeat across files and file names may repeat
// across databases, so the triple is the identity of a series.
func (d Descriptor) Key() uuid.UUID {
	return Key(d.Database, d.File, d.Name)
}

// Key builds the series identity from its parts.
func Key(database, file, name string) uuid.UUID {
	return gnuuid.New(database + "|" + file + "|" + name)
}

// Columns is the fixed header of the catalog table.
var Columns = []string{
	"name", "number", "alias", "file", "description", "type", "units",
	"exponent", "decimals", "units_description", "frequency",
	"first_observation_date", "last_observation_date", "observation_count",
	"title", "source", "notes", "database",
}

// Record renders the descriptor as strings in the order of Columns.
func (d Descriptor) Record() []string {
	return []string{
		d.Name, d.Number, d.Alias, d.File, d.Description, d.Type, d.Units,
		d.Exponent, d.Decimals, d.UnitsDescription, d.Frequency,
		d.FirstDate.String(), d.LastDate.String(), strconv.Itoa(d.Count),
		d.Title, d.Source, d.Notes, d.Database,
	}
}
