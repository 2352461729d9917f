// Package iodb connects bdeseries to PostgreSQL through pgxpool.
package iodb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConns = 10
	minConns = 2

	tablesSQL = `SELECT tablename FROM pg_tables
WHERE schemaname = 'public' ORDER BY tablename`

	regclassSQL = `SELECT to_regclass($1) IS NOT NULL`
)

type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator returns an operator that is not connected yet.
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// DSN builds a postgres:// URL from the database settings. User and
// password are escaped.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     cfg.Database,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	fail := func(err error) error {
		return ConnectionError(cfg.Host, cfg.Port, cfg.Database, cfg.User, err)
	}

	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return fail(err)
	}
	pcfg.MaxConns = maxConns
	pcfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return fail(err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return fail(err)
	}

	p.pool = pool
	return nil
}

func (p *pgxOperator) Close() error {
	if p.pool == nil {
		return nil
	}
	p.pool.Close()
	p.pool = nil
	return nil
}

func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists resolves the name through to_regclass, so both "series"
// and "public.series" work.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	table string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	var ok bool
	if err := p.pool.QueryRow(ctx, regclassSQL, table).Scan(&ok); err != nil {
		return false, TableCheckError(err)
	}
	return ok, nil
}

// Tables lists tables of the public schema in alphabetical order.
func (p *pgxOperator) Tables(ctx context.Context) ([]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	rows, err := p.pool.Query(ctx, tablesSQL)
	if err != nil {
		return nil, TableCheckError(err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, TableCheckError(err)
	}
	return res, nil
}

// DropAllTables removes every public table with one DROP statement, so
// either all of them go or none.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	tables, err := p.Tables(ctx)
	if err != nil || len(tables) == 0 {
		return err
	}

	names := make([]string, len(tables))
	for i, v := range tables {
		names[i] = pgx.Identifier{"public", v}.Sanitize()
	}
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE",
		strings.Join(names, ", "))

	if _, err = p.pool.Exec(ctx, stmt); err != nil {
		return TableCheckError(err)
	}
	return nil
}
