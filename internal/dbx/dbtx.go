// Package dbx holds the transaction helper of the SQLite token store.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Execer is the part of database/sql a transaction body needs.
// Both *sql.DB and *sql.Tx satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a transaction on db and commits if fn succeeds. An
// error from fn rolls back and is returned together with any rollback
// failure. A panic in fn rolls back and is rethrown.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx Execer) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return errors.Join(err, rollback(tx))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}
