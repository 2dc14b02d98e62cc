// enum.go implements the choice and flags kinds: preferences whose values
// are drawn from a named enumeration, either single-select or bitwise
// combinable. The payload of both kinds is the enumerant bit value.
package prefdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Enumerant is one named member of an Enum.
type Enumerant struct {
	Name  string
	Value uint64
}

// Enum is an ordered set of named enumerants shared by choice and flags
// preferences. Declaration order is the canonical rendering order.
type Enum struct {
	items  []Enumerant
	byName map[string]uint64
}

// NewEnum builds an enumeration from its members. Member names must be
// non-blank and unique.
func NewEnum(items ...Enumerant) (*Enum, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: enum needs at least one enumerant", ErrNilArgument)
	}
	e := &Enum{
		items:  append([]Enumerant(nil), items...),
		byName: make(map[string]uint64, len(items)),
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("%w: blank enumerant name", ErrInvalidName)
		}
		if _, dup := e.byName[it.Name]; dup {
			return nil, fmt.Errorf("%w: enumerant %q", ErrDuplicateName, it.Name)
		}
		e.byName[it.Name] = it.Value
	}
	return e, nil
}

// MustEnum is NewEnum for static declarations; it panics on error.
func MustEnum(items ...Enumerant) *Enum {
	e, err := NewEnum(items...)
	if err != nil {
		panic(err)
	}
	return e
}

// Enumerants returns the members in declaration order.
func (e *Enum) Enumerants() []Enumerant {
	return append([]Enumerant(nil), e.items...)
}

// Value looks up an enumerant bit value by name.
func (e *Enum) Value(name string) (uint64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// choiceLiteral renders a single-select value: the quoted enumerant name,
// or the bare number when no enumerant matches exactly.
func (e *Enum) choiceLiteral(v uint64) string {
	for _, it := range e.items {
		if it.Value == v {
			return quoteJSON(it.Name)
		}
	}
	return strconv.FormatUint(v, 10)
}

// flagsLiteral renders a combination: the constituent enumerant names in
// declaration order joined with ", ", quoted as one string. Bits not
// covered by any enumerant are appended as a decimal number.
func (e *Enum) flagsLiteral(v uint64) string {
	if v == 0 {
		return e.choiceLiteral(0)
	}
	var names []string
	var covered uint64
	for _, it := range e.items {
		if it.Value != 0 && v&it.Value == it.Value {
			names = append(names, it.Name)
			covered |= it.Value
		}
	}
	if rest := v &^ covered; rest != 0 {
		names = append(names, strconv.FormatUint(rest, 10))
	}
	return quoteJSON(strings.Join(names, ", "))
}

// parse resolves a textual value: an enumerant name, a decimal number, or,
// when combinable, a combination of those separated by "," or "|".
func (e *Enum) parse(s string, combinable bool) (uint64, error) {
	if !combinable {
		return e.parseAtom(s)
	}
	var v uint64
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	if len(parts) == 0 {
		return e.parseAtom(s)
	}
	for _, part := range parts {
		atom, err := e.parseAtom(part)
		if err != nil {
			return 0, err
		}
		v |= atom
	}
	return v, nil
}

func (e *Enum) parseAtom(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if v, ok := e.byName[s]; ok {
		return v, nil
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown enumerant %q", ErrCoercion, s)
}

// NewChoice starts a single-select preference builder over e. Unlike the
// scalar kinds, the allowed set defaults to all enumerants and undefined
// values are disallowed unless the builder says otherwise.
func NewChoice(name string, e *Enum) Builder[uint64] {
	return newSelectable(name, e, KindChoice)
}

// NewFlags starts a combinable preference builder over e, with the same
// defaults as NewChoice. A value is a bitwise union of enumerant values.
func NewFlags(name string, e *Enum) Builder[uint64] {
	return newSelectable(name, e, KindFlags)
}

func newSelectable(name string, e *Enum, kind Kind) Builder[uint64] {
	b := newBuilder(name, selectableOps(e, kind))
	if e == nil {
		b.err = fmt.Errorf("%w: nil enum", ErrNilArgument)
		return b
	}
	// Undeclared bit patterns are usually invalid; default to the closed
	// set of declared enumerants.
	values := make([]uint64, len(e.items))
	for i, it := range e.items {
		values[i] = it.Value
	}
	b.allowed = values
	b.haveAllowed = true
	b.allowUndef = false
	return b
}

func selectableOps(e *Enum, kind Kind) ops[uint64] {
	combinable := kind == KindFlags
	literal := func(v uint64) string {
		if combinable {
			return e.flagsLiteral(v)
		}
		return e.choiceLiteral(v)
	}
	return ops[uint64]{
		kind:    kind,
		literal: literal,
		fromJSON: func(r gjson.Result) (uint64, error) {
			switch r.Type {
			case gjson.String:
				return e.parse(r.Str, combinable)
			case gjson.Number:
				return strconv.ParseUint(r.Raw, 10, 64)
			}
			return 0, coercionError(kind, r)
		},
		fromAny: func(v any) (uint64, error) {
			switch x := v.(type) {
			case string:
				return e.parse(x, combinable)
			default:
				return anyToUint64(v)
			}
		},
		equal: func(a, b uint64) bool { return a == b },
		less:  func(a, b uint64) bool { return a < b },
		mask:  func(v uint64) uint64 { return v },
	}
}
