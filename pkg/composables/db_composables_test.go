package composables

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM lists").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := InTx(WithDB(context.Background(), db), func(txCtx context.Context) error {
		tx, err := UseTx(txCtx)
		require.NoError(t, err)
		_, ok := tx.(*sqlx.Tx)
		require.True(t, ok)
		_, err = tx.ExecContext(txCtx, "DELETE FROM lists")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := InTx(WithDB(context.Background(), db), func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_JoinsOuterTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := InTx(WithDB(context.Background(), db), func(outer context.Context) error {
		return InTx(outer, func(inner context.Context) error {
			outerTx, _ := UseTx(outer)
			innerTx, _ := UseTx(inner)
			require.Same(t, outerTx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUseTx_WithoutDatabase(t *testing.T) {
	_, err := UseTx(context.Background())
	require.ErrorIs(t, err, ErrNoDB)
	require.ErrorIs(t, InTx(context.Background(), func(context.Context) error { return nil }), ErrNoDB)
}
