// Package iobuild turns one source file into a catalog fragment.
//
// A file moves through Loaded, Split, Normalized, Extracted and Done.
// Any failure moves it to Errored and is recorded in the result, nothing
// escapes Build. Files named like catalog artifacts are Skipped.
package iobuild

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gnames/bdeseries/internal/iocsv"
	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/dates"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/bdeseries/pkg/series"
	"github.com/gnames/bdeseries/pkg/table"
)

type builder struct {
	marker string
}

// New creates a Builder. Files whose base name contains
// cfg.Catalog.Marker are skipped.
func New(cfg *config.Config) lifecycle.Builder {
	return &builder{marker: cfg.Catalog.Marker}
}

// IsArtifact reports if a file name belongs to a catalog artifact.
func IsArtifact(file, marker string) bool {
	return marker != "" && strings.Contains(file, marker)
}

func (b *builder) Build(path, database string) (res catalog.FileResult) {
	res = catalog.FileResult{
		Path:  path,
		File:  filepath.Base(path),
		State: catalog.Loaded,
	}

	if IsArtifact(res.File, b.marker) {
		res.State = catalog.Skipped
		slog.Debug("Skipping catalog artifact", "file", res.File)
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			fail(&res, StructuralError(res.File, fmt.Errorf("panic: %v", r)))
		}
	}()

	tbl, err := iocsv.Load(path)
	if err != nil {
		fail(&res, err)
		return res
	}

	res.State = catalog.Split
	g, mask, err := dates.Classify(tbl.Labels())
	if err != nil {
		fail(&res, DateFormatError(res.File, err))
		return res
	}
	obs, meta, err := table.Split(tbl, g, mask)
	if err != nil {
		fail(&res, StructuralError(res.File, err))
		return res
	}

	res.State = catalog.Normalized
	res.Unparsable = table.Unparsable(obs)
	if len(res.Unparsable) > 0 {
		labels := make([]string, len(res.Unparsable))
		for i, o := range res.Unparsable {
			labels[i] = o.Label
		}
		slog.Warn("Unparsable dates",
			"file", res.File,
			"grammar", g.String(),
			"count", len(labels),
			"labels", labels,
		)
	}
	res.Observations = observations(database, res.File, g, tbl.Series(), obs)

	res.State = catalog.Extracted
	ext := series.Extract(series.Input{
		File:         res.File,
		Database:     database,
		Columns:      tbl.Series(),
		Observations: obs,
		Metadata:     meta,
	})
	res.Descriptors = ext.Descriptors
	res.Unclassified = ext.Unclassified
	if len(res.Unclassified) > 0 {
		labels := make([]string, len(res.Unclassified))
		for i, r := range res.Unclassified {
			labels[i] = r.Label
		}
		slog.Warn("Unclassified metadata rows",
			"file", res.File,
			"labels", labels,
		)
	}

	res.State = catalog.Done
	slog.Debug("File processed",
		"file", res.File,
		"grammar", g.String(),
		"series", len(res.Descriptors),
		"observations", res.Observations.Len(),
	)
	return res
}

func fail(res *catalog.FileResult, err error) {
	res.Stage = res.State
	res.State = catalog.Errored
	res.Err = err
	res.Descriptors = nil
	res.Observations = nil
	slog.Error("Cannot process file",
		"file", res.File,
		"stage", res.Stage.String(),
		"error", err,
	)
}

// observations keeps dated rows only, so the date axis is uniform.
func observations(
	database, file string,
	g dates.Grammar,
	cols []string,
	obs []table.Observation,
) *catalog.Observations {
	res := &catalog.Observations{
		Database: database,
		File:     file,
		Grammar:  g,
		Series:   cols,
	}
	for _, o := range obs {
		if !o.Date.Valid {
			continue
		}
		res.Dates = append(res.Dates, o.Date)
		res.Values = append(res.Values, o.Values)
	}
	return res
}
