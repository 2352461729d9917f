package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/bdeseries/internal/iodb"
	"github.com/gnames/bdeseries/internal/ioschema"
	"github.com/gnames/bdeseries/internal/iotesting"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/lifecycle"
	"github.com/gnames/bdeseries/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerInterface(t *testing.T) {
	op := iodb.NewPgxOperator()
	var mgr lifecycle.SchemaManager = ioschema.NewManager(op)
	require.NotNil(t, mgr)
}

func TestCreateNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewPgxOperator())
	err := mgr.Create(context.Background(), config.New())
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg))
	// running twice keeps the schema
	require.NoError(t, mgr.Create(ctx, cfg))

	for _, table := range schema.TableNames() {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}
}
