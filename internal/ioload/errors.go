package ioload

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError is returned when the loader gets an operator
// without a connection pool.
func NotConnectedError() error {
	msg := "Cannot load catalog: database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn, errors.New("pool is nil")),
	}
}

// CopyError is returned when CopyFrom into a table fails.
func CopyError(table, database string, err error) error {
	msg := "Cannot copy rows of <em>%s</em> into table <em>%s</em>"
	vars := []any{database, table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LoadCopyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: copy %s rows into %s: %w",
			fn, database, table, err),
	}
}

// LoadError is returned when a statement of the load transaction fails.
func LoadError(database, step string, err error) error {
	msg := "Cannot load <em>%s</em> (%s)"
	vars := []any{database, step}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LoadCopyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: load %s, %s: %w", fn, database, step, err),
	}
}
