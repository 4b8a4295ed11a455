// Package dbx holds the database plumbing shared by all repositories: a
// narrow query interface satisfied by both a connection pool and an open
// transaction, plus a wrapper that runs repository calls transactionally.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is what a repository requires from its database handle. Handing a
// repository a *sql.Tx scopes every call to that transaction; handing it a
// *sql.DB runs each call on its own pooled connection.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; an error or a panic rolls it back, and a panic keeps
// propagating after the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
