// Package table holds the raw tabular content of one source file and splits
// it into observation and metadata rows.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/bdeseries/pkg/dates"
)

// ErrNoColumns is returned when a table has no label column.
var ErrNoColumns = errors.New("table has no label column")

// Table is the as-loaded content of one source file. Columns[0] is the
// label column, the rest are series columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row is one line of a Table. Index is the position of the row among the
// table rows (the header is not counted).
type Row struct {
	Index  int
	Label  string
	Values []string
}

// Observation is a row whose label was recognized as a date.
type Observation struct {
	Row
	Date dates.Date
}

// New builds a Table from a header and raw records. Header cells and labels
// are trimmed. Columns that repeat an earlier name are dropped together with
// their values, rows are padded or truncated to the header width.
func New(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoColumns
	}

	keep := make([]int, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	cols := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i > 0 {
			if _, ok := seen[h]; ok {
				continue
			}
		}
		seen[h] = struct{}{}
		keep = append(keep, i)
		cols = append(cols, h)
	}

	res := &Table{Columns: cols, Rows: make([]Row, 0, len(records))}
	for i, rec := range records {
		vals := make([]string, len(keep)-1)
		for j, k := range keep[1:] {
			if k < len(rec) {
				vals[j] = strings.TrimSpace(rec[k])
			}
		}
		var label string
		if len(rec) > 0 {
			label = strings.TrimSpace(rec[0])
		}
		res.Rows = append(res.Rows, Row{Index: i, Label: label, Values: vals})
	}
	return res, nil
}

// Series returns the names of the series columns.
func (t *Table) Series() []string {
	if len(t.Columns) == 0 {
		return nil
	}
	return t.Columns[1:]
}

// Labels returns the label of every row in order.
func (t *Table) Labels() []string {
	res := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		res[i] = r.Label
	}
	return res
}

// Split partitions the rows of t using mask (true marks a date row) and
// normalizes the labels of date rows with grammar g. Every row ends up in
// exactly one partition, source order is kept in both.
func Split(
	t *Table,
	g dates.Grammar,
	mask []bool,
) ([]Observation, []Row, error) {
	if len(mask) != len(t.Rows) {
		return nil, nil, fmt.Errorf(
			"mask has %d entries for %d rows", len(mask), len(t.Rows),
		)
	}

	var obs []Observation
	var meta []Row
	for i, r := range t.Rows {
		if mask[i] {
			obs = append(obs, Observation{Row: r, Date: dates.Normalize(r.Label, g)})
			continue
		}
		meta = append(meta, r)
	}
	return obs, meta, nil
}

// Unparsable returns the observations whose label could not be resolved to
// a calendar date.
func Unparsable(obs []Observation) []Observation {
	var res []Observation
	for _, o := range obs {
		if !o.Date.Valid {
			res = append(res, o)
		}
	}
	return res
}
