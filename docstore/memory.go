package docstore

import (
	"context"
	"sync"

	"github.com/CreativeUnicorns/prefdoc"
)

// MemoryStore keeps the document in memory. Useful for tests or for
// applications that only want the reconcile semantics without persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	text string
	set  bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Read returns the stored text, or prefdoc.ErrDocumentNotFound before the
// first Write.
func (s *MemoryStore) Read(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", prefdoc.ErrDocumentNotFound
	}
	return s.text, nil
}

// Write replaces the stored text.
func (s *MemoryStore) Write(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.set = true
	return nil
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error { return nil }
