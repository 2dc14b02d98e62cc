package docstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/prefdoc"
)

// setupSQLiteTest creates a new SQLite database for testing and returns the
// store and a cleanup function.
func setupSQLiteTest(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	dbPath := fmt.Sprintf("test_prefdoc_%s_%d.db", t.Name(), time.Now().UnixNano())
	store, err := NewSQLiteStore(dbPath, "settings")
	require.NoError(t, err, "Failed to initialize SQLiteStore")

	cleanup := func() {
		require.NoError(t, store.Close(), "Failed to close store")
		require.NoError(t, os.Remove(dbPath), "Failed to remove test database")
	}
	return store, cleanup
}

func TestNewSQLiteStoreRejectsEmptyName(t *testing.T) {
	_, err := NewSQLiteStore("unused.db", "")
	assert.ErrorIs(t, err, prefdoc.ErrNilArgument)
}

func TestSQLiteStore_ReadMissing(t *testing.T) {
	store, cleanup := setupSQLiteTest(t)
	defer cleanup()

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, prefdoc.ErrDocumentNotFound)
}

func TestSQLiteStore_WriteAndRead(t *testing.T) {
	store, cleanup := setupSQLiteTest(t)
	defer cleanup()
	ctx := context.Background()

	text := "{\n    \"Number\": 13\n}"
	require.NoError(t, store.Write(ctx, text))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, text, got)

	// Upsert replaces the existing row.
	require.NoError(t, store.Write(ctx, "{}"))
	got, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	var count int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM preference_documents WHERE name = ?", "settings").Scan(&count))
	assert.Equal(t, 1, count, "upsert must not create a second row")
}

func TestSQLiteStore_DocumentsAreIsolatedByName(t *testing.T) {
	dbPath := fmt.Sprintf("test_prefdoc_shared_%d.db", time.Now().UnixNano())
	defer os.Remove(dbPath)

	first, err := NewSQLiteStore(dbPath, "settings")
	require.NoError(t, err)
	defer first.Close()
	second, err := NewSQLiteStore(dbPath, "workspace")
	require.NoError(t, err)
	defer second.Close()

	ctx := context.Background()
	require.NoError(t, first.Write(ctx, "first"))
	require.NoError(t, second.Write(ctx, "second"))

	got, err := first.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = second.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
