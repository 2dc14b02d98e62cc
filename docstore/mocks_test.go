package docstore

import (
	"context"

	"github.com/CreativeUnicorns/prefdoc"
)

// mockStore records calls and can be primed with text or errors.
type mockStore struct {
	text    string
	set     bool
	readErr error
	written []string
	wantErr error
	closed  bool
}

func (m *mockStore) Read(_ context.Context) (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	if !m.set {
		return "", prefdoc.ErrDocumentNotFound
	}
	return m.text, nil
}

func (m *mockStore) Write(_ context.Context, text string) error {
	if m.wantErr != nil {
		return m.wantErr
	}
	m.text = text
	m.set = true
	m.written = append(m.written, text)
	return nil
}

func (m *mockStore) Close() error {
	m.closed = true
	return nil
}
