// Package postgres stores users, favorites and meal plans in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of *pgxpool.Pool the repositories and the login
// limiter use. pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// DB holds the pool shared by the repositories.
type DB struct{ Pool PgxPool }

// A single desktop session rarely has more than a couple of queries in
// flight: one UI action plus a background limiter write.
const (
	maxConns        = 4
	maxConnIdleTime = 5 * time.Minute
	pingTimeout     = 10 * time.Second
)

// New opens a small pool for dsn and pings the server. Explicit pool
// settings in dsn (pool_max_conns etc.) win over the defaults here.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if !hasParam(dsn, "pool_max_conns") {
		cfg.MaxConns = maxConns
	}
	if !hasParam(dsn, "pool_max_conn_idle_time") {
		cfg.MaxConnIdleTime = maxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool}, nil
}

// Close closes the pool.
func (db *DB) Close() { db.Pool.Close() }

func hasParam(dsn, name string) bool {
	return strings.Contains(dsn, name+"=")
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}
