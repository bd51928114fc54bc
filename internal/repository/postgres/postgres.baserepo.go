package postgres

import (
	"context"
	"database/sql"

	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/jmoiron/sqlx"
)

type PostgresBaseRepo struct {
	db database.DB
}

func (r *PostgresBaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}
func (r *PostgresBaseRepo) Commit(tx database.Transaction) error {
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}
func (r *PostgresBaseRepo) Rollback(tx database.Transaction) error {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return errors.NewDatabaseError("failed to rollback transaction", err)
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (r *PostgresBaseRepo) WithTx(ctx context.Context, fn func(tx database.Transaction) error) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = r.Rollback(tx)
		return err
	}
	return r.Commit(tx)
}

func (r *PostgresBaseRepo) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := r.db.GetDB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to execute query", err)
	}
	return result, nil
}
func (r *PostgresBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}
func (r *PostgresBaseRepo) Close() error {
	if err := r.db.Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}

func (r *PostgresBaseRepo) conn() *sqlx.DB {
	return r.db.GetDB()
}
