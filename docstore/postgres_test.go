package docstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/prefdoc"
)

// newMockPostgresStore wires a sqlmock database through sqlOpenFunc and runs
// the constructor against it.
func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectExec(regexp.QuoteMeta(pgCreateTableSQL)).WillReturnResult(sqlmock.NewResult(0, 0))

	originalSqlOpen := sqlOpenFunc
	sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
		return db, nil
	}
	restore := func() { sqlOpenFunc = originalSqlOpen }

	store, err := NewPostgresStore("dummy_conn_string", "settings")
	require.NoError(t, err)
	return store, mock, restore
}

func TestNewPostgresStore(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		store, mock, restore := newMockPostgresStore(t)
		defer restore()

		assert.NotNil(t, store)
		assert.NoError(t, mock.ExpectationsWereMet(), "sqlmock expectations not met")
	})

	t.Run("empty document name", func(t *testing.T) {
		_, err := NewPostgresStore("dummy_conn_string", "")
		assert.ErrorIs(t, err, prefdoc.ErrNilArgument)
	})

	t.Run("sql open error", func(t *testing.T) {
		expectedErr := errors.New("failed to open database")
		originalSqlOpen := sqlOpenFunc
		sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return nil, expectedErr
		}
		defer func() { sqlOpenFunc = originalSqlOpen }()

		_, err := NewPostgresStore("dummy_conn_string", "settings")
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("ping error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("ping failed"))

		originalSqlOpen := sqlOpenFunc
		sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return db, nil
		}
		defer func() { sqlOpenFunc = originalSqlOpen }()

		_, err = NewPostgresStore("dummy_conn_string", "settings")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ping postgres database")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Read(t *testing.T) {
	t.Run("existing document", func(t *testing.T) {
		store, mock, restore := newMockPostgresStore(t)
		defer restore()

		rows := sqlmock.NewRows([]string{"text"}).AddRow("{}")
		mock.ExpectQuery(regexp.QuoteMeta(pgSelectSQL)).
			WithArgs("settings").
			WillReturnRows(rows)

		text, err := store.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "{}", text)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document", func(t *testing.T) {
		store, mock, restore := newMockPostgresStore(t)
		defer restore()

		mock.ExpectQuery(regexp.QuoteMeta(pgSelectSQL)).
			WithArgs("settings").
			WillReturnError(sql.ErrNoRows)

		_, err := store.Read(context.Background())
		assert.ErrorIs(t, err, prefdoc.ErrDocumentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		store, mock, restore := newMockPostgresStore(t)
		defer restore()

		mock.ExpectQuery(regexp.QuoteMeta(pgSelectSQL)).
			WithArgs("settings").
			WillReturnError(errors.New("connection reset"))

		_, err := store.Read(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read document")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Write(t *testing.T) {
	t.Run("successful upsert", func(t *testing.T) {
		store, mock, restore := newMockPostgresStore(t)
		defer restore()

		mock.ExpectExec(regexp.QuoteMeta(pgUpsertSQL)).
			WithArgs("settings", "{}", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Write(context.Background(), "{}"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		store, mock, restore := newMockPostgresStore(t)
		defer restore()

		mock.ExpectExec(regexp.QuoteMeta(pgUpsertSQL)).
			WithArgs("settings", "{}", sqlmock.AnyArg()).
			WillReturnError(errors.New("write conflict"))

		err := store.Write(context.Background(), "{}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write document")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
