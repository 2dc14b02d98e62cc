// Package docstore persists rendered preference documents and exposes the
// file-facing surface around them: overwrite, read, and read-reconcile-
// write. The annotated text itself is produced and consumed by the codec
// package; stores only move opaque UTF-8 blobs.
package docstore

import "context"

// Store is a persistence backend for one named preference document.
type Store interface {
	// Read returns the stored document text. It returns
	// prefdoc.ErrDocumentNotFound when no document exists yet.
	Read(ctx context.Context) (string, error)
	// Write replaces the stored document text.
	Write(ctx context.Context, text string) error
	// Close releases the backend's resources.
	Close() error
}
