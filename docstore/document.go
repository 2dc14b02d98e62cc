// document.go
package docstore

import (
	"context"
	"errors"

	"github.com/CreativeUnicorns/prefdoc"
	"github.com/CreativeUnicorns/prefdoc/codec"
)

// Document ties a preference tree's persisted form to one Store. It owns
// the read-reconcile-write sequence: the backend is only touched for the
// duration of a single call, and nothing is written when the reconciled
// text is byte-identical to what is already stored.
type Document struct {
	config *config
}

type config struct {
	store  Store
	codec  *codec.Codec
	logger prefdoc.Logger
}

// Option configures a Document.
type Option func(*config)

// WithCodec sets the codec used for rendering and reconciliation. The
// default uses a four-space indent unit.
func WithCodec(c *codec.Codec) Option {
	return func(cfg *config) {
		cfg.codec = c
	}
}

// WithLogger sets the logger used around read, reconcile, and write.
func WithLogger(l prefdoc.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// NewDocument creates a Document over the given store.
func NewDocument(store Store, opts ...Option) (*Document, error) {
	if store == nil {
		return nil, prefdoc.ErrNilArgument
	}
	cfg := &config{
		store:  store,
		codec:  codec.New(),
		logger: prefdoc.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Document{config: cfg}, nil
}

// Write renders root and overwrites the stored document unconditionally.
func (d *Document) Write(ctx context.Context, root any) error {
	text, err := d.config.codec.Render(root)
	if err != nil {
		return err
	}
	if err := d.config.store.Write(ctx, text); err != nil {
		return err
	}
	d.config.logger.Debug("document written", "bytes", len(text))
	return nil
}

// Update reads the stored document, reconciles it into root, and writes
// the regenerated text back when it differs. It returns the dotted paths
// of the leaves whose values actually changed; nil means no value changed,
// which includes a missing document (the fresh rendering is then written).
func (d *Document) Update(ctx context.Context, root any) ([]string, error) {
	text, err := d.config.store.Read(ctx)
	if err != nil {
		if !errors.Is(err, prefdoc.ErrDocumentNotFound) {
			return nil, err
		}
		d.config.logger.Debug("document missing, writing fresh")
		text = ""
	}

	res, err := d.config.codec.Reconcile(text, root)
	if err != nil {
		return nil, err
	}
	if !res.Dirty {
		d.config.logger.Debug("document unchanged")
		return nil, nil
	}
	if err := d.config.store.Write(ctx, res.Text); err != nil {
		return nil, err
	}
	d.config.logger.Debug("document updated", "changed", len(res.Changed))
	return res.Changed, nil
}

// ReadAsString returns the stored document text verbatim.
func (d *Document) ReadAsString(ctx context.Context) (string, error) {
	return d.config.store.Read(ctx)
}

// Close closes the underlying store.
func (d *Document) Close() error {
	return d.config.store.Close()
}
