package composables

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/agentlists/pkg/constants"
)

var (
	ErrNoTx = errors.New("no transaction found in context")
	ErrNoDB = errors.New("no database handle found in context")
)

func WithDB(ctx context.Context, db *sqlx.DB) context.Context {
	return context.WithValue(ctx, constants.DBKey, db)
}

func UseDB(ctx context.Context) (*sqlx.DB, error) {
	db, ok := ctx.Value(constants.DBKey).(*sqlx.DB)
	if !ok || db == nil {
		return nil, ErrNoDB
	}
	return db, nil
}

func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

// UseTx returns the transaction bound to ctx, falling back to the plain
// database handle when there is none.
func UseTx(ctx context.Context) (sqlx.ExtContext, error) {
	if tx, ok := ctx.Value(constants.TxKey).(*sqlx.Tx); ok && tx != nil {
		return tx, nil
	}
	return UseDB(ctx)
}

// InTx runs fn in a transaction. When ctx already carries one, fn joins it
// and the outer caller decides whether to commit.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	if tx, ok := ctx.Value(constants.TxKey).(*sqlx.Tx); ok && tx != nil {
		return fn(ctx)
	}

	db, err := UseDB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			return errors.Join(err, rErr)
		}
		return err
	}
	return tx.Commit()
}
