package dates

import (
	"fmt"
	"strings"
)

// FormatError is returned by Classify when a table does not use exactly one
// grammar. Masks keeps, for every grammar, which labels matched it.
type FormatError struct {
	Matched []Grammar
	Masks   map[Grammar][]bool
}

func (e *FormatError) Error() string {
	if len(e.Matched) == 0 {
		return "no row label matches a known date format"
	}
	names := make([]string, len(e.Matched))
	for i, g := range e.Matched {
		names[i] = fmt.Sprintf("%s (%d rows)", g, count(e.Masks[g]))
	}
	return "row labels mix date formats: " + strings.Join(names, ", ")
}

// Classify finds the single grammar used by labels. It returns the grammar
// and a mask where true marks a date row. Labels matching no grammar are
// metadata rows. A *FormatError is returned if no grammar or more than one
// grammar has matches.
func Classify(labels []string) (Grammar, []bool, error) {
	masks := make(map[Grammar][]bool, len(Grammars))
	var matched []Grammar
	for _, g := range Grammars {
		mask := make([]bool, len(labels))
		var found bool
		for i, l := range labels {
			if Matches(l, g) {
				mask[i] = true
				found = true
			}
		}
		masks[g] = mask
		if found {
			matched = append(matched, g)
		}
	}

	if len(matched) != 1 {
		return Unknown, nil, &FormatError{Matched: matched, Masks: masks}
	}

	g := matched[0]
	return g, masks[g], nil
}

func count(mask []bool) int {
	var res int
	for _, v := range mask {
		if v {
			res++
		}
	}
	return res
}
