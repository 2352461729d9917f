package series

import (
	"strings"
	"unicode"

	"github.com/gnames/bdeseries/pkg/table"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type field int

const (
	fieldNone field = iota
	fieldName
	fieldNumber
	fieldAlias
	fieldDescription
	fieldUnitsDescription
	fieldUnits
	fieldFrequency
	fieldSource
	fieldNotes
)

// markers maps folded row labels to descriptor fields.
var markers = map[string]field{
	"NOMBRE DE LA SERIE":          fieldName,
	"NUMERO SECUENCIAL":           fieldNumber,
	"ALIAS DE LA SERIE":           fieldAlias,
	"DESCRIPCION DE LA SERIE":     fieldDescription,
	"DESCRIPCION DE LAS UNIDADES": fieldUnitsDescription,
	"UNIDADES":                    fieldUnits,
	"FRECUENCIA":                  fieldFrequency,
	"FUENTE":                      fieldSource,
	"NOTAS":                       fieldNotes,
}

// positional is the order of the leading metadata rows in files that do not
// label them.
var positional = []field{
	fieldNumber, fieldAlias, fieldDescription,
	fieldUnitsDescription, fieldFrequency,
}

// unitPlaceholders are descriptions that are really units. The source
// format puts units text in the description slot for these series, and the
// alias is the real description. Keep this substitution: it matches the
// catalog published upstream.
var unitPlaceholders = map[string]struct{}{
	"miles de unidades": {},
	"porcentaje":        {},
	"euros":             {},
	"años":              {},
	"monedas":           {},
	"billetes":          {},
}

// missing values carry no observation. "_" is the no-data marker of the
// source.
var missing = map[string]struct{}{
	"":  {},
	"_": {},
}

// Input is everything Extract needs for one file.
type Input struct {
	File         string
	Database     string
	Columns      []string
	Observations []table.Observation
	Metadata     []table.Row
}

// Result holds one descriptor per series column and the metadata rows that
// could not be classified.
type Result struct {
	Descriptors  []Descriptor
	Unclassified []table.Row
}

// Extract builds a Descriptor for every column of in. Missing markers leave
// fields empty; extraction itself never fails.
func Extract(in Input) Result {
	fields, unclassified := classifyMetadata(in)

	res := Result{
		Descriptors:  make([]Descriptor, len(in.Columns)),
		Unclassified: unclassified,
	}
	for i, name := range in.Columns {
		d := Descriptor{
			Name:     name,
			File:     in.File,
			Database: in.Database,
		}
		for f, row := range fields {
			v := value(row, i)
			switch f {
			case fieldNumber:
				d.Number = v
			case fieldAlias:
				d.Alias = v
			case fieldDescription:
				d.Description = v
			case fieldUnitsDescription:
				d.UnitsDescription = v
			case fieldUnits:
				d.Units = v
			case fieldFrequency:
				d.Frequency = v
			case fieldSource:
				if v == "" {
					v = firstValue(row)
				}
				d.Source = v
			}
		}
		if isUnitPlaceholder(d.Description) {
			d.Description = d.Alias
		}
		observe(&d, in.Observations, i)
		res.Descriptors[i] = d
	}
	return res
}

// classifyMetadata assigns metadata rows to fields by label. If no label is
// known, leading rows are read by position. That layout has no units row,
// so units are taken from the units description.
func classifyMetadata(in Input) (map[field]table.Row, []table.Row) {
	fields := make(map[field]table.Row)
	var unclassified []table.Row
	for _, r := range in.Metadata {
		f, ok := markers[Fold(r.Label)]
		if !ok {
			unclassified = append(unclassified, r)
			continue
		}
		if _, dup := fields[f]; !dup {
			fields[f] = r
		}
	}
	if len(fields) > 0 {
		return fields, unclassified
	}

	first := -1
	if len(in.Observations) > 0 {
		first = in.Observations[0].Index
	}
	unclassified = unclassified[:0]
	var pos int
	for _, r := range in.Metadata {
		leading := first < 0 || r.Index < first
		if leading && pos < len(positional) {
			fields[positional[pos]] = r
			pos++
			continue
		}
		unclassified = append(unclassified, r)
	}
	if r, ok := fields[fieldUnitsDescription]; ok {
		fields[fieldUnits] = r
	}
	return fields, unclassified
}

// observe sets the date range and the count of column i.
func observe(d *Descriptor, obs []table.Observation, i int) {
	for _, o := range obs {
		if !o.Date.Valid || IsMissing(value(o.Row, i)) {
			continue
		}
		d.Count++
		if !d.FirstDate.Valid || o.Date.Before(d.FirstDate) {
			d.FirstDate = o.Date
		}
		if !d.LastDate.Valid || d.LastDate.Before(o.Date) {
			d.LastDate = o.Date
		}
	}
}

func value(r table.Row, i int) string {
	if i < len(r.Values) {
		return r.Values[i]
	}
	return ""
}

func firstValue(r table.Row) string {
	for _, v := range r.Values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsMissing reports if v carries no observation.
func IsMissing(v string) bool {
	_, ok := missing[strings.TrimSpace(v)]
	return ok
}

func isUnitPlaceholder(s string) bool {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	_, ok := unitPlaceholders[s]
	return ok
}

// Fold upper-cases s, removes diacritics and collapses spaces, so that
// "Número  secuencial" and "NUMERO SECUENCIAL" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		res = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(res), " "))
}
