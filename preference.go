// preference.go
package prefdoc

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Preference is the kind-agnostic view of a single named, typed, optionally
// null setting. Concrete preferences are always the generic Pref[T],
// produced by the per-kind builders; the unexported method keeps the set of
// implementations closed to this package.
type Preference interface {
	// Name returns the unique name within the owning Group or Store.
	Name() string
	// Kind returns the value kind the preference was built with.
	Kind() Kind
	// Description returns the human-readable description, or "".
	Description() string
	// HasValue reports whether a concrete value is present (not null).
	HasValue() bool
	// HasDefault reports whether a concrete default is present.
	HasDefault() bool
	// AllowsUndefined reports whether values outside the allowed set are
	// accepted. Always true when no allowed set is configured.
	AllowsUndefined() bool
	// AllowedLiterals returns the canonical literal of each allowed value
	// in stored order, or nil when unconstrained.
	AllowedLiterals() []string
	// ValueLiteral returns the canonical literal of the current value.
	// The second result is false when the value is null.
	ValueLiteral() (string, bool)
	// DefaultLiteral returns the canonical literal of the default value.
	// The second result is false when no default is present.
	DefaultLiteral() (string, bool)
	// ValueAny returns the current value as a dynamically typed payload.
	// The second result is false when the value is null.
	ValueAny() (any, bool)
	// SetToNull clears the value. Null is always a legal state.
	SetToNull()
	// SetToDefault copies the default into the value. With no default
	// present the value becomes null.
	SetToDefault() error
	// SetFromJSON coerces a parsed literal into the preference's kind and
	// applies it through the normal validity and constraint checks.
	SetFromJSON(raw gjson.Result) error
	// SetAny applies a dynamically typed value, coercing compatible Go
	// types into the preference's kind first.
	SetAny(v any) error

	claim() error
	release()
}

// Pref is the concrete preference for payload type T. Instances are created
// exclusively through a builder's Build; all invariant checks run there and
// again inside every setter.
type Pref[T any] struct {
	name           string
	desc           string
	op             ops[T]
	value          *T
	def            *T
	allowed        []T // nil means unconstrained
	allowUndefined bool
	procs          []Processor[T]
	owned          bool
}

// Name returns the preference name.
func (p *Pref[T]) Name() string { return p.name }

// Kind returns the preference's value kind.
func (p *Pref[T]) Kind() Kind { return p.op.kind }

// Description returns the configured description, or "".
func (p *Pref[T]) Description() string { return p.desc }

// HasValue reports whether the value is present.
func (p *Pref[T]) HasValue() bool { return p.value != nil }

// HasDefault reports whether the default is present.
func (p *Pref[T]) HasDefault() bool { return p.def != nil }

// AllowsUndefined reports the resolved undefined-values policy.
func (p *Pref[T]) AllowsUndefined() bool { return p.allowUndefined }

// Value returns the current value and whether it is present.
func (p *Pref[T]) Value() (T, bool) {
	if p.value == nil {
		var zero T
		return zero, false
	}
	return *p.value, true
}

// Default returns the default value and whether it is present.
func (p *Pref[T]) Default() (T, bool) {
	if p.def == nil {
		var zero T
		return zero, false
	}
	return *p.def, true
}

// ValueAny returns the current value as a dynamically typed payload.
func (p *Pref[T]) ValueAny() (any, bool) {
	if p.value == nil {
		return nil, false
	}
	return *p.value, true
}

// AllowedValues returns a copy of the allowed set, or nil when
// unconstrained.
func (p *Pref[T]) AllowedValues() []T {
	if p.allowed == nil {
		return nil
	}
	return append([]T(nil), p.allowed...)
}

// AllowedLiterals returns the canonical literal of each allowed value.
func (p *Pref[T]) AllowedLiterals() []string {
	if len(p.allowed) == 0 {
		return nil
	}
	lits := make([]string, len(p.allowed))
	for i, v := range p.allowed {
		lits[i] = p.op.literal(v)
	}
	return lits
}

// ValueLiteral returns the canonical literal of the current value.
func (p *Pref[T]) ValueLiteral() (string, bool) {
	if p.value == nil {
		return "", false
	}
	return p.op.literal(*p.value), true
}

// DefaultLiteral returns the canonical literal of the default value.
func (p *Pref[T]) DefaultLiteral() (string, bool) {
	if p.def == nil {
		return "", false
	}
	return p.op.literal(*p.def), true
}

// SetValue runs the validity chain and the allowed-set policy on v, then
// stores the accepted (possibly normalized) value. On failure the previous
// value is untouched and the returned error wraps the cause.
func (p *Pref[T]) SetValue(v T) error {
	accepted, err := p.check(v)
	if err != nil {
		return newBuildError(p.name, err)
	}
	p.value = &accepted
	return nil
}

// SetToNull clears the value.
func (p *Pref[T]) SetToNull() {
	p.value = nil
}

// SetToDefault copies the default into the value. A preference without a
// default becomes null, mirroring a fresh build.
func (p *Pref[T]) SetToDefault() error {
	if p.def == nil {
		p.value = nil
		return nil
	}
	v := *p.def
	p.value = &v
	return nil
}

// SetFromJSON coerces raw into T and applies it through SetValue. A JSON
// null sets the value to null.
func (p *Pref[T]) SetFromJSON(raw gjson.Result) error {
	if raw.Type == gjson.Null {
		p.SetToNull()
		return nil
	}
	v, err := p.op.fromJSON(raw)
	if err != nil {
		return newBuildError(p.name, err)
	}
	return p.SetValue(v)
}

// SetAny coerces a dynamically typed value into T and applies it.
func (p *Pref[T]) SetAny(v any) error {
	if tv, ok := v.(T); ok {
		return p.SetValue(tv)
	}
	tv, err := p.op.fromAny(v)
	if err != nil {
		return newBuildError(p.name, err)
	}
	return p.SetValue(tv)
}

// check runs the processor chain and the membership policy on candidate.
func (p *Pref[T]) check(candidate T) (T, error) {
	v, err := runProcessors(p.procs, candidate)
	if err != nil {
		return v, err
	}
	if err := p.checkAllowed(v); err != nil {
		return v, err
	}
	return v, nil
}

func (p *Pref[T]) checkAllowed(v T) error {
	if p.allowUndefined || len(p.allowed) == 0 {
		return nil
	}
	if p.op.mask != nil && p.op.kind.IsCombinable() {
		// A combination is allowed when every set bit is covered by the
		// union of the allowed atoms.
		var union uint64
		for _, a := range p.allowed {
			union |= p.op.mask(a)
		}
		if p.op.mask(v)&^union == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrValueNotAllowed, p.op.literal(v))
	}
	for _, a := range p.allowed {
		if p.op.equal(a, v) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrValueNotAllowed, p.op.literal(v))
}

// claim marks the preference as owned by a container. A preference belongs
// to at most one container; re-parenting is not supported.
func (p *Pref[T]) claim() error {
	if p.owned {
		return fmt.Errorf("%w: %q", ErrAlreadyOwned, p.name)
	}
	p.owned = true
	return nil
}

func (p *Pref[T]) release() {
	p.owned = false
}

// ValueOf returns the current value of p as T. It fails with
// ErrKindMismatch when p does not carry T payloads and with ErrValueAbsent
// when the value is null.
func ValueOf[T any](p Preference) (T, error) {
	var zero T
	tp, ok := p.(*Pref[T])
	if !ok {
		return zero, fmt.Errorf("%w: preference %q is %s", ErrKindMismatch, p.Name(), p.Kind())
	}
	v, present := tp.Value()
	if !present {
		return zero, fmt.Errorf("%w: preference %q", ErrValueAbsent, p.Name())
	}
	return v, nil
}

// DefaultOf returns the default value of p as T, with the same failure
// modes as ValueOf.
func DefaultOf[T any](p Preference) (T, error) {
	var zero T
	tp, ok := p.(*Pref[T])
	if !ok {
		return zero, fmt.Errorf("%w: preference %q is %s", ErrKindMismatch, p.Name(), p.Kind())
	}
	v, present := tp.Default()
	if !present {
		return zero, fmt.Errorf("%w: preference %q", ErrValueAbsent, p.Name())
	}
	return v, nil
}
