// Package catalog defines the catalog of series built from a directory of
// source files, and the report of what went wrong while building it.
//
// This package has no I/O dependencies.
package catalog

import (
	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/gnames/bdeseries/pkg/table"
	"github.com/google/uuid"
)

// State is the stage a file reached while it was processed.
type State int

const (
	Loaded State = iota
	Split
	Normalized
	Extracted
	Done
	Skipped
	Errored
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Split:
		return "split"
	case Normalized:
		return "normalized"
	case Extracted:
		return "extracted"
	case Done:
		return "done"
	case Skipped:
		return "skipped"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Observations is the normalized observation table of one file: a date axis
// and one column of raw values per series.
type Observations struct {
	Database string
	File     string
	Grammar  dates.Grammar
	Series   []string
	Dates    []dates.Date
	// Values[i][j] is the value of series j at Dates[i].
	Values [][]string
}

// Key returns the identity of series name of this table. It matches the
// Key of the corresponding descriptor.
func (o *Observations) Key(name string) uuid.UUID {
	return series.Key(o.Database, o.File, name)
}

// Len returns the number of dated rows.
func (o *Observations) Len() int {
	return len(o.Dates)
}

// FileResult is the outcome of processing one file.
type FileResult struct {
	// Path is the full path of the file, File its base name.
	Path  string
	File  string
	State State
	// Stage is the state in which processing failed.
	Stage        State
	Err          error
	Descriptors  []series.Descriptor
	Observations *Observations
	Unparsable   []table.Observation
	Unclassified []table.Row
}

// Catalog is the ordered union of series descriptors of all processed files.
// Order follows file names, then column order within a file.
type Catalog struct {
	Descriptors  []series.Descriptor
	Observations []*Observations
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Add appends the fragment of a successfully processed file.
func (c *Catalog) Add(res FileResult) {
	c.Descriptors = append(c.Descriptors, res.Descriptors...)
	if res.Observations != nil {
		c.Observations = append(c.Observations, res.Observations)
	}
}

// Merge appends all descriptors and observation tables of other.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	c.Descriptors = append(c.Descriptors, other.Descriptors...)
	c.Observations = append(c.Observations, other.Observations...)
}

// Len returns the number of series in the catalog.
func (c *Catalog) Len() int {
	return len(c.Descriptors)
}

// ByDatabase groups descriptors by their database tag, keeping order.
func (c *Catalog) ByDatabase() map[string][]series.Descriptor {
	res := make(map[string][]series.Descriptor)
	for _, d := range c.Descriptors {
		res[d.Database] = append(res[d.Database], d)
	}
	return res
}
