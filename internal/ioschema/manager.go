// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/db"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/bdeseries/pkg/schema"
)

type manager struct {
	op db.Operator
}

// NewManager returns a SchemaManager that migrates catalog tables through
// GORM on top of the operator's pool.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{op: op}
}

// Create migrates series, observations, databases and schema_versions.
// Rows already loaded stay, so databases can be loaded one at a time.
func (m *manager) Create(ctx context.Context, cfg *config.Config) error {
	pool := m.op.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	fresh, err := m.missingTables(ctx)
	if err != nil {
		return err
	}

	gdb, err := openGORM(pool)
	if err != nil {
		return GORMConnectionError(err)
	}
	if err = schema.Migrate(gdb.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	slog.Info("Catalog tables migrated",
		"database", cfg.Database.Database,
		"version", schema.Version,
		"created", fresh,
	)
	return nil
}

// missingTables returns catalog tables that do not exist yet.
func (m *manager) missingTables(ctx context.Context) ([]string, error) {
	var res []string
	for _, name := range schema.TableNames() {
		ok, err := m.op.TableExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			res = append(res, name)
		}
	}
	return res, nil
}
