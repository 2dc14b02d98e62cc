// parse.go wraps the structured-value tokenizer used during
// reconciliation. Comments are stripped before parsing; they are never read
// back, only regenerated from current schema metadata.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CreativeUnicorns/prefdoc"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseError reports malformed input text with its position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// Parse strips // line comments from text and parses the remainder into a
// generic structured-value tree. Malformed input fails with a *ParseError
// carrying line and column.
func Parse(text string) (gjson.Result, error) {
	stripped := stripComments(text)
	if strings.TrimSpace(stripped) == "" {
		return gjson.Result{}, nil
	}
	if !gjson.Valid(stripped) {
		return gjson.Result{}, syntaxError(stripped)
	}
	return gjson.Parse(stripped), nil
}

// syntaxError locates the first malformed byte. gjson only reports
// validity, so the position comes from the standard decoder.
func syntaxError(stripped string) *ParseError {
	var v any
	err := json.Unmarshal([]byte(stripped), &v)
	perr := &ParseError{Line: 1, Col: 1, Msg: "malformed input"}
	if err == nil {
		return perr
	}
	perr.Msg = err.Error()
	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	default:
		return perr
	}
	if offset < 1 || offset > int64(len(stripped)) {
		return perr
	}
	perr.Line = 1 + strings.Count(stripped[:offset], "\n")
	last := strings.LastIndexByte(stripped[:offset], '\n')
	perr.Col = int(offset) - last
	return perr
}

// stripComments removes // line comments outside string literals, keeping
// every newline so reported positions match the original text.
func stripComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			sb.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			sb.WriteByte(ch)
			continue
		}
		if ch == '/' && i+1 < len(text) && text[i+1] == '/' {
			for i < len(text) && text[i] != '\n' {
				i++
			}
			if i < len(text) {
				sb.WriteByte('\n')
			}
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// Stringify renders root as plain comment-free JSON, for callers that need
// the structured tree without annotations.
func Stringify(root any) (string, error) {
	switch v := root.(type) {
	case *prefdoc.Store:
		return stringifyStore(v)
	case *prefdoc.Group:
		return stringifyGroup(v)
	case []*prefdoc.Group:
		parts := make([]string, len(v))
		for i, g := range v {
			var err error
			if parts[i], err = stringifyGroup(g); err != nil {
				return "", err
			}
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case []*prefdoc.Store:
		parts := make([]string, len(v))
		for i, s := range v {
			var err error
			if parts[i], err = stringifyStore(s); err != nil {
				return "", err
			}
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case prefdoc.Preference:
		return valueLiteral(v), nil
	}
	return "", fmt.Errorf("codec: cannot stringify %T", root)
}

func stringifyGroup(g *prefdoc.Group) (string, error) {
	doc := "{}"
	for _, name := range g.Names() {
		p, err := g.Get(name)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, escapePath(name), valueLiteral(p))
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func stringifyStore(s *prefdoc.Store) (string, error) {
	doc := "{}"
	for _, name := range s.Names() {
		it, err := s.Get(name)
		if err != nil {
			return "", err
		}
		raw, err := stringifyItem(it)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, escapePath(name), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func stringifyItem(it prefdoc.Item) (string, error) {
	switch it.Kind() {
	case prefdoc.ItemPreference:
		p, err := it.Preference()
		if err != nil {
			return "", err
		}
		return valueLiteral(p), nil
	case prefdoc.ItemGroup:
		g, err := it.Group()
		if err != nil {
			return "", err
		}
		return stringifyGroup(g)
	case prefdoc.ItemStore:
		nested, err := it.Store()
		if err != nil {
			return "", err
		}
		return stringifyStore(nested)
	case prefdoc.ItemGroupArray:
		groups, err := it.Groups()
		if err != nil {
			return "", err
		}
		parts := make([]string, len(groups))
		for i, g := range groups {
			if parts[i], err = stringifyGroup(g); err != nil {
				return "", err
			}
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case prefdoc.ItemStoreArray:
		stores, err := it.Stores()
		if err != nil {
			return "", err
		}
		parts := make([]string, len(stores))
		for i, nested := range stores {
			if parts[i], err = stringifyStore(nested); err != nil {
				return "", err
			}
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	}
	return "", fmt.Errorf("codec: cannot stringify %s item", it.Kind())
}

// escapePath protects sjson path metacharacters in an entry name.
func escapePath(name string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`)
	return r.Replace(name)
}
