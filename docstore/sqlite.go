// Package docstore provides a SQLite-based document store.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/CreativeUnicorns/prefdoc"
)

const (
	sqliteCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS preference_documents (
			name TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	sqliteUpsertSQL = `
		INSERT INTO preference_documents (name, text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name)
		DO UPDATE SET text = ?, updated_at = ?
	`

	sqliteSelectSQL = `
		SELECT text FROM preference_documents WHERE name = ?
	`
)

// SQLiteStore keeps named documents in a SQLite table, one row per
// document.
type SQLiteStore struct {
	db   *sql.DB
	name string
}

// NewSQLiteStore opens (or creates) the database at dbPath and binds the
// store to the named document.
func NewSQLiteStore(dbPath, name string) (*SQLiteStore, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty document name", prefdoc.ErrNilArgument)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db, name: name}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(sqliteCreateTableSQL)
	return err
}

// Read returns the document text, or prefdoc.ErrDocumentNotFound when no
// row exists for the document name.
func (s *SQLiteStore) Read(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, sqliteSelectSQL, s.name).Scan(&text)
	if err == sql.ErrNoRows {
		return "", prefdoc.ErrDocumentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return text, nil
}

// Write stores or replaces the document text.
func (s *SQLiteStore) Write(ctx context.Context, text string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, sqliteUpsertSQL, s.name, text, now, text, now)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
