// Package docstore provides a PostgreSQL-based document store.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/CreativeUnicorns/prefdoc"
)

// sqlOpenFunc is a package-level variable that can be overridden for
// testing.
var sqlOpenFunc = sql.Open

const (
	pgCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS preference_documents (
			name TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	pgUpsertSQL = `
		INSERT INTO preference_documents (name, text, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name)
		DO UPDATE SET text = $2, updated_at = $3
	`

	pgSelectSQL = `
		SELECT text FROM preference_documents WHERE name = $1
	`
)

// PostgresStore keeps named documents in a PostgreSQL table, one row per
// document.
type PostgresStore struct {
	db   *sql.DB
	name string
}

// NewPostgresStore connects with the given DSN and binds the store to the
// named document.
func NewPostgresStore(dsn, name string) (*PostgresStore, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty document name", prefdoc.ErrNilArgument)
	}
	db, err := sqlOpenFunc("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	store := &PostgresStore{db: db, name: name}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(pgCreateTableSQL)
	return err
}

// Read returns the document text, or prefdoc.ErrDocumentNotFound when no
// row exists for the document name.
func (s *PostgresStore) Read(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, pgSelectSQL, s.name).Scan(&text)
	if err == sql.ErrNoRows {
		return "", prefdoc.ErrDocumentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return text, nil
}

// Write stores or replaces the document text.
func (s *PostgresStore) Write(ctx context.Context, text string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, pgUpsertSQL, s.name, text, now)
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
