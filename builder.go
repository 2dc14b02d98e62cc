// builder.go implements the fluent per-kind preference builders. Builders
// are plain values threaded through the chain; Build performs every
// cross-field invariant check in one place and is the only way to obtain a
// Pref.
package prefdoc

import (
	"net/netip"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Builder accumulates the configuration for a Pref[T]. The zero Builder is
// not usable; obtain one from a kind constructor such as NewString or
// NewInt64.
type Builder[T any] struct {
	name        string
	op          ops[T]
	desc        string
	value       *T
	def         *T
	allowed     []T
	haveAllowed bool
	sortAllowed bool
	allowUndef  bool
	procs       []Processor[T]
	err         error
}

func newBuilder[T any](name string, op ops[T]) Builder[T] {
	return Builder[T]{name: name, op: op, allowUndef: true}
}

// NewBool starts a boolean preference builder.
func NewBool(name string) Builder[bool] { return newBuilder(name, boolOps()) }

// NewInt8 starts an 8-bit signed integer preference builder.
func NewInt8(name string) Builder[int8] { return newBuilder(name, signedOps[int8](KindInt8, 8)) }

// NewInt16 starts a 16-bit signed integer preference builder.
func NewInt16(name string) Builder[int16] { return newBuilder(name, signedOps[int16](KindInt16, 16)) }

// NewInt32 starts a 32-bit signed integer preference builder.
func NewInt32(name string) Builder[int32] { return newBuilder(name, signedOps[int32](KindInt32, 32)) }

// NewInt64 starts a 64-bit signed integer preference builder.
func NewInt64(name string) Builder[int64] { return newBuilder(name, signedOps[int64](KindInt64, 64)) }

// NewUint8 starts an 8-bit unsigned integer preference builder.
func NewUint8(name string) Builder[uint8] { return newBuilder(name, unsignedOps[uint8](KindUint8, 8)) }

// NewUint16 starts a 16-bit unsigned integer preference builder.
func NewUint16(name string) Builder[uint16] {
	return newBuilder(name, unsignedOps[uint16](KindUint16, 16))
}

// NewUint32 starts a 32-bit unsigned integer preference builder.
func NewUint32(name string) Builder[uint32] {
	return newBuilder(name, unsignedOps[uint32](KindUint32, 32))
}

// NewUint64 starts a 64-bit unsigned integer preference builder.
func NewUint64(name string) Builder[uint64] {
	return newBuilder(name, unsignedOps[uint64](KindUint64, 64))
}

// NewFloat32 starts a single-precision floating point preference builder.
func NewFloat32(name string) Builder[float32] {
	return newBuilder(name, floatOps[float32](KindFloat32, 32))
}

// NewFloat64 starts a double-precision floating point preference builder.
func NewFloat64(name string) Builder[float64] {
	return newBuilder(name, floatOps[float64](KindFloat64, 64))
}

// NewDecimal starts an arbitrary-precision decimal preference builder.
func NewDecimal(name string) Builder[decimal.Decimal] { return newBuilder(name, decimalOps()) }

// NewString starts a string preference builder.
func NewString(name string) Builder[string] { return newBuilder(name, stringOps()) }

// NewBytes starts a byte-sequence preference builder. Values are persisted
// as base64 string literals.
func NewBytes(name string) Builder[[]byte] { return newBuilder(name, bytesOps()) }

// NewNetAddr starts a network address preference builder.
func NewNetAddr(name string) Builder[netip.Addr] { return newBuilder(name, netAddrOps()) }

// Name returns the preference name the builder was started with.
func (b Builder[T]) Name() string { return b.name }

// WithValue seeds the preference value.
func (b Builder[T]) WithValue(v T) Builder[T] {
	b.value = &v
	return b
}

// WithDefaultValue seeds the default value.
func (b Builder[T]) WithDefaultValue(v T) Builder[T] {
	b.def = &v
	return b
}

// WithValueAndAsDefault seeds both the value and the default from v.
func (b Builder[T]) WithValueAndAsDefault(v T) Builder[T] {
	b.value = &v
	d := v
	b.def = &d
	return b
}

// WithDescription sets the description rendered into the annotated form.
func (b Builder[T]) WithDescription(desc string) Builder[T] {
	b.desc = desc
	return b
}

// WithAllowedValues constrains (or, with AllowUndefinedValues, suggests)
// the set of values. The set is de-duplicated at Build time; the current
// sort request is kept.
func (b Builder[T]) WithAllowedValues(values ...T) Builder[T] {
	b.allowed = append([]T(nil), values...)
	b.haveAllowed = true
	return b
}

// WithAllowedValuesAndSort supplies the allowed set and requests
// kind-specific sorting.
func (b Builder[T]) WithAllowedValuesAndSort(values ...T) Builder[T] {
	b = b.WithAllowedValues(values...)
	b.sortAllowed = true
	return b
}

// WithAllowedValuesAndDoNotSort supplies the allowed set in caller order.
func (b Builder[T]) WithAllowedValuesAndDoNotSort(values ...T) Builder[T] {
	b = b.WithAllowedValues(values...)
	b.sortAllowed = false
	return b
}

// WithNoAllowedValues removes any configured allowed set, leaving the
// preference unconstrained.
func (b Builder[T]) WithNoAllowedValues() Builder[T] {
	b.allowed = nil
	b.haveAllowed = false
	return b
}

// SortAllowedValues requests kind-specific sorting of the allowed set.
// Order of builder calls does not matter; sorting happens once at Build.
func (b Builder[T]) SortAllowedValues() Builder[T] {
	b.sortAllowed = true
	return b
}

// DoNotSortAllowedValues keeps the allowed set in caller order.
func (b Builder[T]) DoNotSortAllowedValues() Builder[T] {
	b.sortAllowed = false
	return b
}

// AllowOnlyDefinedValues requires the value to belong to the allowed set.
// Ignored when the allowed set ends up nil or empty.
func (b Builder[T]) AllowOnlyDefinedValues() Builder[T] {
	b.allowUndef = false
	return b
}

// AllowUndefinedValues permits values outside the allowed set; the set is
// then rendered as suggestions rather than constraints.
func (b Builder[T]) AllowUndefinedValues() Builder[T] {
	b.allowUndef = true
	return b
}

// WithValidityProcessor appends p to the validity chain. A nil processor is
// a configuration error surfaced by Build.
func (b Builder[T]) WithValidityProcessor(p Processor[T]) Builder[T] {
	if p == nil {
		if b.err == nil {
			b.err = ErrNilProcessor
		}
		return b
	}
	b.procs = append(append([]Processor[T](nil), b.procs...), p)
	return b
}

// Build validates the accumulated configuration and returns the finished
// preference. It runs, in order: the validity chain on value and default
// independently, allowed-set normalization, undefined-values policy
// resolution, and the membership check when undefined values are
// disallowed. Any failure is returned as a BuildError wrapping the cause.
func (b Builder[T]) Build() (*Pref[T], error) {
	if b.err != nil {
		return nil, newBuildError(b.name, b.err)
	}
	if strings.TrimSpace(b.name) == "" {
		return nil, newBuildError(b.name, ErrInvalidName)
	}

	p := &Pref[T]{
		name:  b.name,
		desc:  b.desc,
		op:    b.op,
		procs: append([]Processor[T](nil), b.procs...),
	}

	if b.haveAllowed {
		p.allowed = normalizeAllowed(b.allowed, b.op, b.sortAllowed)
	}

	// An absent or empty allowed set cannot forbid everything.
	p.allowUndefined = b.allowUndef || len(p.allowed) == 0

	if b.value != nil {
		v, err := runProcessors(p.procs, *b.value)
		if err != nil {
			return nil, newBuildError(b.name, err)
		}
		p.value = &v
	}
	if b.def != nil {
		d, err := runProcessors(p.procs, *b.def)
		if err != nil {
			return nil, newBuildError(b.name, err)
		}
		p.def = &d
	}

	if p.value != nil {
		if err := p.checkAllowed(*p.value); err != nil {
			return nil, newBuildError(b.name, err)
		}
	}
	if p.def != nil {
		if err := p.checkAllowed(*p.def); err != nil {
			return nil, newBuildError(b.name, err)
		}
	}

	return p, nil
}

// MustBuild is Build for static declarations; it panics on error.
func (b Builder[T]) MustBuild() *Pref[T] {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// normalizeAllowed de-duplicates the set, preserving first occurrence
// order, then sorts with the kind's ordering when requested. The sort is
// stable.
func normalizeAllowed[T any](values []T, op ops[T], sortRequested bool) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		dup := false
		for _, seen := range out {
			if op.equal(seen, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	if sortRequested {
		sort.SliceStable(out, func(i, j int) bool { return op.less(out[i], out[j]) })
	}
	return out
}
