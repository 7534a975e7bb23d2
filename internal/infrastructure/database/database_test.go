package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return Wrap(sqlx.NewDb(raw, "postgres")), mock
}

func TestDB_BeginTxx(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_WithTransaction(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE todos").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
			_, err := tx.Exec("UPDATE todos SET position = 0")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns fn error", func(t *testing.T) {
		db, mock := newMockDB(t)
		failed := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
			return failed
		})
		assert.ErrorIs(t, err, failed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		called := false
		err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.False(t, called)
	})
}
