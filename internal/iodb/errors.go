package iodb

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
)

var errNoPool = errors.New("operator has no connection pool")

func from() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// ConnectionError explains how to reach the PostgreSQL server that
// receives loaded catalogs.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot open PostgreSQL database <em>%s</em> on %s:%d as %s.

Make sure the server accepts connections (<em>pg_isready -h %s -p %d</em>)
and the database exists, then check the <em>database</em> section of
%s or the BDESERIES_DATABASE_* variables.`
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{
			database, host, port, user,
			host, port,
			config.ConfigFilePath("~"),
		},
		Err: fmt.Errorf("from %s: connect %s:%d/%s: %w",
			from(), host, port, database, err),
	}
}

// NotConnectedError is returned by operations called before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "PostgreSQL connection is not open",
		Err:  fmt.Errorf("from %s: %w", from(), errNoPool),
	}
}

// TableCheckError wraps failures of queries that list, probe or drop
// tables.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Cannot inspect or drop tables of the public schema",
		Err:  fmt.Errorf("from %s: tables: %w", from(), err),
	}
}
