package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ad2m1109/Spendora/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries runs the application's SQL against a pool or a transaction.
type Queries struct {
	db      DBTX
	dialect Dialect
}

func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

func (q *Queries) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) rowsAffected(ctx context.Context, op, query string, args ...interface{}) (int64, error) {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return n, nil
}

func (q *Queries) exists(ctx context.Context, op, query string, args ...interface{}) (bool, error) {
	var ok bool
	if err := q.queryRow(ctx, "SELECT EXISTS ("+query+")", args...).Scan(&ok); err != nil {
		return false, wrapErr(op, err)
	}
	return ok, nil
}

// wrapErr maps driver errors onto the core taxonomy. sql.ErrNoRows becomes
// core.ErrNotFound; everything else is a PersistenceError.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if isUniqueViolation(err) {
		err = fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}
	return &core.PersistenceError{Op: op, Err: err}
}
