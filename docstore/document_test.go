package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/prefdoc"
	"github.com/CreativeUnicorns/prefdoc/codec"
)

func settingsGroup(t *testing.T) *prefdoc.Group {
	t.Helper()
	g, err := prefdoc.NewGroup(
		prefdoc.NewInt64("Number").WithDefaultValue(13).MustBuild(),
		prefdoc.NewString("String").WithDescription("A string preference.").MustBuild(),
	)
	require.NoError(t, err)
	return g
}

func TestNewDocumentRejectsNilStore(t *testing.T) {
	_, err := NewDocument(nil)
	assert.ErrorIs(t, err, prefdoc.ErrNilArgument)
}

func TestDocumentWriteRendersAnnotatedText(t *testing.T) {
	store := &mockStore{}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	require.NoError(t, doc.Write(context.Background(), settingsGroup(t)))
	require.Len(t, store.written, 1)
	assert.Contains(t, store.written[0], "// Default value: 13.")
	assert.Contains(t, store.written[0], `"Number": null`)
}

func TestDocumentUpdateWritesFreshWhenMissing(t *testing.T) {
	store := &mockStore{}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	changed, err := doc.Update(context.Background(), settingsGroup(t))
	require.NoError(t, err)
	assert.Nil(t, changed, "fresh write must not report value changes")
	require.Len(t, store.written, 1)
	assert.Contains(t, store.written[0], `"String": null`)
}

func TestDocumentUpdateAppliesEditsAndRegenerates(t *testing.T) {
	store := &mockStore{
		text: `{"Number": 42, "String": null}`,
		set:  true,
	}
	doc, err := NewDocument(store)
	require.NoError(t, err)
	g := settingsGroup(t)

	changed, err := doc.Update(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, []string{"Number"}, changed)

	v, err := prefdoc.GroupValueAs[int64](g, "Number")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	// The stored text is regenerated with comments and the edited value.
	require.Len(t, store.written, 1)
	assert.Contains(t, store.written[0], `"Number": 42`)
	assert.Contains(t, store.written[0], "// A string preference.")
}

func TestDocumentUpdateSkipsWriteWhenUnchanged(t *testing.T) {
	g := settingsGroup(t)
	text, err := codec.New().Render(g)
	require.NoError(t, err)

	store := &mockStore{text: text, set: true}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	changed, err := doc.Update(context.Background(), g)
	require.NoError(t, err)
	assert.Nil(t, changed)
	assert.Empty(t, store.written, "byte-identical text must not be rewritten")
}

func TestDocumentUpdatePropagatesReadError(t *testing.T) {
	readErr := errors.New("backend unavailable")
	store := &mockStore{readErr: readErr}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	_, err = doc.Update(context.Background(), settingsGroup(t))
	assert.ErrorIs(t, err, readErr)
	assert.Empty(t, store.written)
}

func TestDocumentUpdatePropagatesWriteError(t *testing.T) {
	writeErr := errors.New("disk full")
	store := &mockStore{wantErr: writeErr}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	_, err = doc.Update(context.Background(), settingsGroup(t))
	assert.ErrorIs(t, err, writeErr)
}

func TestDocumentUpdateSurfacesParseError(t *testing.T) {
	store := &mockStore{text: "{ not valid", set: true}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	_, err = doc.Update(context.Background(), settingsGroup(t))
	var perr *codec.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, store.written, "malformed text must not be overwritten")
}

func TestDocumentCustomCodec(t *testing.T) {
	store := &mockStore{}
	doc, err := NewDocument(store, WithCodec(codec.New(codec.WithIndent('\t', 1))))
	require.NoError(t, err)

	g, err := prefdoc.NewGroup(prefdoc.NewBool("On").WithValue(true).MustBuild())
	require.NoError(t, err)

	require.NoError(t, doc.Write(context.Background(), g))
	require.Len(t, store.written, 1)
	assert.Equal(t, "{\n\t\"On\": true\n}", store.written[0])
}

func TestDocumentReadAsStringAndClose(t *testing.T) {
	store := &mockStore{text: "{}", set: true}
	doc, err := NewDocument(store)
	require.NoError(t, err)

	text, err := doc.ReadAsString(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "{}", text)

	require.NoError(t, doc.Close())
	assert.True(t, store.closed)
}
