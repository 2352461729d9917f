package catalog

import (
	"github.com/gnames/bdeseries/pkg/table"
)

// Failure names a file that ended in the Errored state.
type Failure struct {
	Path  string
	File  string
	Stage State
	Err   error
}

// DateWarning aggregates the labels of one file that matched the date
// grammar but could not be resolved to a calendar date.
type DateWarning struct {
	File   string
	Labels []string
	Rows   []int
}

// MetadataWarning lists metadata rows of one file with labels that are not
// known markers. They are reported and left uninterpreted.
type MetadataWarning struct {
	File   string
	Labels []string
}

// Report separates what failed, and why, from the catalog itself.
type Report struct {
	Processed    int
	Failures     []Failure
	Skipped      []string
	DateWarnings []DateWarning
	Metadata     []MetadataWarning
}

// Add records the outcome of one file in the report.
func (r *Report) Add(res FileResult) {
	switch res.State {
	case Skipped:
		r.Skipped = append(r.Skipped, res.File)
		return
	case Errored:
		r.Failures = append(r.Failures, Failure{
			Path:  res.Path,
			File:  res.File,
			Stage: res.Stage,
			Err:   res.Err,
		})
		return
	}

	r.Processed++
	if len(res.Unparsable) > 0 {
		r.DateWarnings = append(r.DateWarnings, newDateWarning(res.File, res.Unparsable))
	}
	if len(res.Unclassified) > 0 {
		w := MetadataWarning{File: res.File}
		for _, row := range res.Unclassified {
			w.Labels = append(w.Labels, row.Label)
		}
		r.Metadata = append(r.Metadata, w)
	}
}

// Merge appends the entries of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Processed += other.Processed
	r.Failures = append(r.Failures, other.Failures...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.DateWarnings = append(r.DateWarnings, other.DateWarnings...)
	r.Metadata = append(r.Metadata, other.Metadata...)
}

// FailedFiles returns the paths of failed files, ready to be processed
// again.
func (r *Report) FailedFiles() []string {
	res := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		res[i] = f.Path
	}
	return res
}

// HasIssues is true if anything needs attention.
func (r *Report) HasIssues() bool {
	return len(r.Failures)+len(r.DateWarnings)+len(r.Metadata) > 0
}

func newDateWarning(file string, obs []table.Observation) DateWarning {
	res := DateWarning{File: file}
	for _, o := range obs {
		res.Labels = append(res.Labels, o.Label)
		res.Rows = append(res.Rows, o.Index)
	}
	return res
}
