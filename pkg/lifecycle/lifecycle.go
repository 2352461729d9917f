// Package lifecycle declares the contracts of the catalog pipeline stages.
// Implementations live in internal/io* packages.
package lifecycle

import (
	"context"

	"github.com/gnames/bdeseries/pkg/catalog"
	"github.com/gnames/bdeseries/pkg/config"
)

// Builder turns one source file into a catalog fragment.
// Build never returns an error: failures are recorded in the result
// with the Errored state.
type Builder interface {
	Build(path, database string) catalog.FileResult
}

// Assembler builds a catalog out of a directory of source files.
// Individual file failures never stop the batch, they are collected
// in the report. The error is returned only if the directory cannot
// be read.
type Assembler interface {
	Assemble(ctx context.Context, dir, database string) (
		*catalog.Catalog, *catalog.Report, error,
	)

	// AssembleFiles processes a chosen list of files, for example the
	// failures of a previous run.
	AssembleFiles(ctx context.Context, paths []string, database string) (
		*catalog.Catalog, *catalog.Report,
	)
}

// Fetcher downloads and extracts source archives into the data root.
type Fetcher interface {
	// FetchAll returns paths of extracted CSV files. Databases that were
	// already fetched today are not downloaded again.
	FetchAll(ctx context.Context) ([]string, error)
}

// Exporter writes a finished catalog somewhere.
type Exporter interface {
	Export(ctx context.Context, cat *catalog.Catalog) error
}

// SchemaManager creates the PostgreSQL schema for the catalog.
type SchemaManager interface {
	Create(ctx context.Context, cfg *config.Config) error
}
