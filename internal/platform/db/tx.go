package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxBeginner starts transactions; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

var _ TxBeginner = (*pgxpool.Pool)(nil)

// WithTx runs fn in a read-committed transaction, committing when fn returns
// nil and rolling back otherwise. Errors from fn are returned unwrapped.
func WithTx(ctx context.Context, conn TxBeginner, fn func(pgx.Tx) error) error {
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}

// LockRow takes a share lock on table's row with the given id so it cannot be
// deleted before the transaction commits. A missing row returns notFound.
func LockRow(ctx context.Context, tx pgx.Tx, table, id string, notFound error) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT true FROM `+pgx.Identifier{table}.Sanitize()+` WHERE id = $1 FOR SHARE`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		return fmt.Errorf("platform/db: lock %s: %w", table, err)
	}
	return nil
}
