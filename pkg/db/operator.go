// Package db declares the PostgreSQL operator used by the load command.
package db

import (
	"context"

	"github.com/gnames/bdeseries/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines basic database management operations.
// It manages the connection lifecycle and exposes the pgxpool.Pool for
// components that need CopyFrom or transactions (schema manager, loader).
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// Tables lists the tables of the public schema.
	Tables(ctx context.Context) ([]string, error)

	// DropAllTables drops all tables in the public schema.
	DropAllTables(ctx context.Context) error
}
