package ioschema

import (
	"fmt"
	"runtime"

	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/bdeseries/pkg/schema"
	"github.com/gnames/gn"
)

func origin() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

// NotConnectedError is returned when Create runs on an operator without
// a pool.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Connect to PostgreSQL before creating catalog tables",
		Err:  fmt.Errorf("from %s: schema manager has no pool", origin()),
	}
}

// GORMConnectionError wraps failures of opening GORM on top of the pgx
// pool.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  "Cannot open migration session on the PostgreSQL pool",
		Err:  fmt.Errorf("from %s: gorm open: %w", origin(), err),
	}
}

// CreateSchemaError reports a failed migration of series, observations,
// databases and schema_versions tables.
func CreateSchemaError(err error) error {
	msg := `Cannot migrate catalog tables to schema version <em>%s</em>.

The database user needs CREATE rights. Tables left by an incompatible
version can be removed with <em>bdeseries load --drop</em>.`
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{schema.Version},
		Err:  fmt.Errorf("from %s: migrate: %w", origin(), err),
	}
}
