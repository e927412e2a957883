// Package db provides the sqlx/lib-pq-backed contract.Database used by
// access/database, adapted from the teacher's service/database/sql
// package.
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// Database is a contract.Database backed by a *sqlx.DB or, inside
// WithTransaction, a *sqlx.Tx.
type Database struct {
	db  sqlx.ExtContext
	raw *sqlx.DB
}

// Open connects to a Postgres database at dsn using the lib/pq driver.
func Open(dsn string) (*Database, error) {
	conn, err := sqlx.Open("postgres", dsn)

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &Database{db: conn, raw: conn}, nil
}

func (d *Database) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := d.db.ExecContext(ctx, query, args...)

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (d *Database) Query(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, d.db, dest, query, args...)
}

func (d *Database) QueryOne(ctx context.Context, dest any, query string, args ...any) error {
	err := sqlx.GetContext(ctx, d.db, dest, query, args...)

	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(err, contract.ErrDatabaseNoRows)
	}

	return err
}

func (d *Database) WithTransaction(ctx context.Context, fn func(tx contract.Database) error) error {
	tx, err := d.raw.BeginTxx(ctx, &sql.TxOptions{})

	if err != nil {
		return err
	}

	txWrapper := &Database{db: tx, raw: d.raw}

	if err := fn(txWrapper); err != nil {
		return errors.Join(err, tx.Rollback())
	}

	return tx.Commit()
}

var _ contract.Database = (*Database)(nil)
