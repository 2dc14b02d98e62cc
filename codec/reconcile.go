// reconcile.go applies a previously persisted annotated text form back into
// a live Preference tree, accepting only the leaf value differences and
// regenerating everything else from current schema metadata.
package codec

import (
	"github.com/CreativeUnicorns/prefdoc"
	"github.com/tidwall/gjson"
)

// ReconcileResult reports the outcome of a reconciliation.
type ReconcileResult struct {
	// Changed holds the dotted path of every leaf whose value actually
	// changed, in live-tree order. Nil when no value changed.
	Changed []string
	// Text is the freshly rendered annotated form of the reconciled tree.
	Text string
	// Dirty reports whether Text differs from the input and should be
	// written back.
	Dirty bool
}

// Reconcile parses text, walks root in live-tree order applying each
// parsed entry onto its matching leaf through the normal setters, and
// re-renders. Entries that are absent, of the wrong shape, or rejected by
// a leaf's validity or constraint checks leave the prior value untouched;
// one bad field does not block the rest. Malformed text fails with a
// *ParseError; an empty or blank text parses as "no entries".
func (c *Codec) Reconcile(text string, root any) (ReconcileResult, error) {
	parsed, err := Parse(text)
	if err != nil {
		return ReconcileResult{}, err
	}

	var changed []string
	switch v := root.(type) {
	case *prefdoc.Store:
		reconcileStore(v, parsed, "", &changed)
	case *prefdoc.Group:
		reconcileGroup(v, parsed, "", &changed)
	case []*prefdoc.Group:
		for i, elem := range arrayElems(parsed) {
			if i >= len(v) {
				break
			}
			reconcileGroup(v[i], elem, "", &changed)
		}
	case []*prefdoc.Store:
		for i, elem := range arrayElems(parsed) {
			if i >= len(v) {
				break
			}
			reconcileStore(v[i], elem, "", &changed)
		}
	case prefdoc.Preference:
		reconcileLeaf(v, parsed, parsed.Exists(), "", &changed)
	default:
		rendered, rerr := c.Render(root)
		if rerr != nil {
			return ReconcileResult{}, rerr
		}
		return ReconcileResult{Text: rendered}, nil
	}

	rendered, err := c.Render(root)
	if err != nil {
		return ReconcileResult{}, err
	}
	if rendered == text {
		return ReconcileResult{Text: rendered}, nil
	}
	return ReconcileResult{Changed: changed, Text: rendered, Dirty: true}, nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// reconcileLeaf coerces entry into p via the normal setter. Coercion and
// validation failures are swallowed: the prior in-memory value is kept.
func reconcileLeaf(p prefdoc.Preference, entry gjson.Result, present bool, prefix string, changed *[]string) {
	if !present {
		return
	}
	before, hadBefore := p.ValueLiteral()
	if err := p.SetFromJSON(entry); err != nil {
		return
	}
	after, hasAfter := p.ValueLiteral()
	if before != after || hadBefore != hasAfter {
		*changed = append(*changed, joinPath(prefix, p.Name()))
	}
}

func reconcileGroup(g *prefdoc.Group, parsed gjson.Result, prefix string, changed *[]string) {
	entries := objectEntries(parsed)
	for _, name := range g.Names() {
		p, err := g.Get(name)
		if err != nil {
			continue
		}
		entry, present := entries[name]
		reconcileLeaf(p, entry, present, prefix, changed)
	}
}

func reconcileStore(s *prefdoc.Store, parsed gjson.Result, prefix string, changed *[]string) {
	entries := objectEntries(parsed)
	for _, name := range s.Names() {
		it, err := s.Get(name)
		if err != nil {
			continue
		}
		entry, present := entries[name]
		switch it.Kind() {
		case prefdoc.ItemPreference:
			if p, err := it.Preference(); err == nil {
				reconcileLeaf(p, entry, present, prefix, changed)
			}
		case prefdoc.ItemGroup:
			if g, err := it.Group(); err == nil && present {
				reconcileGroup(g, entry, joinPath(prefix, name), changed)
			}
		case prefdoc.ItemStore:
			if nested, err := it.Store(); err == nil && present {
				reconcileStore(nested, entry, joinPath(prefix, name), changed)
			}
		case prefdoc.ItemGroupArray:
			if groups, err := it.Groups(); err == nil && present {
				elems := arrayElems(entry)
				for i, g := range groups {
					if i >= len(elems) {
						break
					}
					reconcileGroup(g, elems[i], joinPath(prefix, name), changed)
				}
			}
		case prefdoc.ItemStoreArray:
			if stores, err := it.Stores(); err == nil && present {
				elems := arrayElems(entry)
				for i, nested := range stores {
					if i >= len(elems) {
						break
					}
					reconcileStore(nested, elems[i], joinPath(prefix, name), changed)
				}
			}
		}
	}
}

// objectEntries returns the parsed object's members, or nil when the
// parsed value is not an object. A structurally incompatible document
// simply matches no live entries.
func objectEntries(parsed gjson.Result) map[string]gjson.Result {
	if !parsed.IsObject() {
		return nil
	}
	return parsed.Map()
}

// arrayElems returns the parsed array's elements, or nil when the parsed
// value is not an array.
func arrayElems(parsed gjson.Result) []gjson.Result {
	if !parsed.IsArray() {
		return nil
	}
	return parsed.Array()
}
