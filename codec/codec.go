// Package codec renders Preference trees into annotated text (structured
// values interleaved with documentation comments generated from schema
// metadata) and reconciles previously persisted text back into a live
// tree. Rendering is deterministic: iteration order, comment wording,
// indentation, and blank-line placement are all fixed, so an unchanged tree
// always round-trips to byte-identical text.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CreativeUnicorns/prefdoc"
)

// Codec holds the formatting configuration for annotated rendering.
type Codec struct {
	indentChar byte
	indentSize int
}

// Option configures a Codec.
type Option func(*Codec)

// WithIndent sets the indentation unit: char repeated size times per
// nesting level.
func WithIndent(char byte, size int) Option {
	return func(c *Codec) {
		c.indentChar = char
		c.indentSize = size
	}
}

// New creates a Codec. The default indentation unit is four spaces.
func New(opts ...Option) *Codec {
	c := &Codec{indentChar: ' ', indentSize: 4}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render produces the annotated text form of root, which must be a
// *prefdoc.Store, *prefdoc.Group, prefdoc.Preference, or a slice of groups
// or stores (the top-level document may be an array of objects). A bare
// preference renders as its comment lines followed by the plain value
// literal.
func (c *Codec) Render(root any) (string, error) {
	var sb strings.Builder
	switch v := root.(type) {
	case *prefdoc.Store:
		c.writeStore(&sb, v, 0)
	case *prefdoc.Group:
		c.writeGroup(&sb, v, 0)
	case []*prefdoc.Group:
		c.writeArray(&sb, len(v), func(i, depth int) { c.writeGroup(&sb, v[i], depth) })
	case []*prefdoc.Store:
		c.writeArray(&sb, len(v), func(i, depth int) { c.writeStore(&sb, v[i], depth) })
	case prefdoc.Preference:
		c.writeComments(&sb, v, 0)
		sb.WriteString(valueLiteral(v))
	default:
		return "", fmt.Errorf("codec: cannot render %T", root)
	}
	return sb.String(), nil
}

// writeArray emits a top-level array of objects, one element per line.
func (c *Codec) writeArray(sb *strings.Builder, n int, elem func(i, depth int)) {
	if n == 0 {
		sb.WriteString("[]")
		return
	}
	sb.WriteString("[\n")
	for i := 0; i < n; i++ {
		c.indent(sb, 1)
		elem(i, 1)
		if i < n-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(']')
}

func (c *Codec) indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth*c.indentSize; i++ {
		sb.WriteByte(c.indentChar)
	}
}

func valueLiteral(p prefdoc.Preference) string {
	if lit, ok := p.ValueLiteral(); ok {
		return lit
	}
	return "null"
}

// quoteName renders an entry name as a JSON string key.
func quoteName(name string) string {
	b, err := json.Marshal(name)
	if err != nil {
		return `"` + name + `"`
	}
	return string(b)
}

// writeComments emits the documentation block of a preference: description
// lines verbatim, the allowed/suggested values line, and the default value
// line, in that fixed order.
func (c *Codec) writeComments(sb *strings.Builder, p prefdoc.Preference, depth int) {
	if desc := p.Description(); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			c.indent(sb, depth)
			sb.WriteString("// ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	if lits := p.AllowedLiterals(); len(lits) > 0 {
		label := "Allowed values"
		if p.AllowsUndefined() {
			label = "Suggested values"
		}
		c.indent(sb, depth)
		sb.WriteString("// ")
		sb.WriteString(label)
		sb.WriteString(": ")
		if p.Kind().IsCombinable() {
			sb.WriteString("combinations of ")
			sb.WriteString(strings.Join(lits, " | "))
			sb.WriteString(` separated with ", ".`)
		} else {
			sb.WriteString(strings.Join(lits, " | "))
			sb.WriteString(".")
		}
		sb.WriteByte('\n')
	}
	if lit, ok := p.DefaultLiteral(); ok {
		c.indent(sb, depth)
		sb.WriteString("// Default value: ")
		sb.WriteString(lit)
		sb.WriteString(".\n")
	}
}

// writeDescription emits a container's own description as a leading
// comment block.
func (c *Codec) writeDescription(sb *strings.Builder, desc string, depth int) {
	if desc == "" {
		return
	}
	for _, line := range strings.Split(desc, "\n") {
		c.indent(sb, depth)
		sb.WriteString("// ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

func (c *Codec) writeGroup(sb *strings.Builder, g *prefdoc.Group, depth int) {
	names := g.Names()
	if len(names) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{\n")
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('\n')
		}
		p, err := g.Get(name)
		if err != nil {
			continue
		}
		c.writeComments(sb, p, depth+1)
		c.indent(sb, depth+1)
		sb.WriteString(quoteName(name))
		sb.WriteString(": ")
		sb.WriteString(valueLiteral(p))
		if i < len(names)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	c.indent(sb, depth)
	sb.WriteByte('}')
}

func (c *Codec) writeStore(sb *strings.Builder, s *prefdoc.Store, depth int) {
	names := s.Names()
	if len(names) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{\n")
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('\n')
		}
		it, err := s.Get(name)
		if err != nil {
			continue
		}
		c.writeStoreItem(sb, name, it, depth+1)
		if i < len(names)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	c.indent(sb, depth)
	sb.WriteByte('}')
}

func (c *Codec) writeStoreItem(sb *strings.Builder, name string, it prefdoc.Item, depth int) {
	switch it.Kind() {
	case prefdoc.ItemPreference:
		p, _ := it.Preference()
		c.writeComments(sb, p, depth)
		c.indent(sb, depth)
		sb.WriteString(quoteName(name))
		sb.WriteString(": ")
		sb.WriteString(valueLiteral(p))
	case prefdoc.ItemGroup:
		g, _ := it.Group()
		c.writeDescription(sb, g.Description(), depth)
		c.indent(sb, depth)
		sb.WriteString(quoteName(name))
		sb.WriteString(": ")
		c.writeGroup(sb, g, depth)
	case prefdoc.ItemStore:
		nested, _ := it.Store()
		c.writeDescription(sb, nested.Description(), depth)
		c.indent(sb, depth)
		sb.WriteString(quoteName(name))
		sb.WriteString(": ")
		c.writeStore(sb, nested, depth)
	case prefdoc.ItemGroupArray:
		groups, _ := it.Groups()
		c.indent(sb, depth)
		sb.WriteString(quoteName(name))
		sb.WriteString(": [\n")
		for i, g := range groups {
			c.indent(sb, depth+1)
			c.writeGroup(sb, g, depth+1)
			if i < len(groups)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		c.indent(sb, depth)
		sb.WriteByte(']')
	case prefdoc.ItemStoreArray:
		stores, _ := it.Stores()
		c.indent(sb, depth)
		sb.WriteString(quoteName(name))
		sb.WriteString(": [\n")
		for i, nested := range stores {
			c.indent(sb, depth+1)
			c.writeStore(sb, nested, depth+1)
			if i < len(stores)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		c.indent(sb, depth)
		sb.WriteByte(']')
	}
}
