package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionError(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "test", "postgres",
		originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	require.Len(t, gnErr.Vars, 7)
	assert.Equal(t, "test", gnErr.Vars[0])
	assert.Equal(t, "~/.config/bdeseries/config.yaml", gnErr.Vars[6])
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), "connect localhost:5432/test")
	assert.Contains(t, gnErr.Err.Error(), "iodb.TestConnectionError")
}

func TestTableCheckError(t *testing.T) {
	originalErr := errors.New("query failed")

	err := TableCheckError(originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBTableCheckError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestNotConnectedError(t *testing.T) {
	err := NotConnectedError()

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, errNoPool)
}
