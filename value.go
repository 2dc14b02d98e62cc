// value.go implements the per-kind behavior behind the generic preference
// slot: canonical literal rendering, coercion from parsed text, equality
// and ordering used for allowed-value normalization.
package prefdoc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/netip"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

type signedInt interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ops bundles the kind-specific operations a Pref[T] delegates to. Every
// builder constructor supplies one; the rest of the model is kind-agnostic.
type ops[T any] struct {
	kind     Kind
	literal  func(T) string               // canonical JSON literal
	fromJSON func(gjson.Result) (T, error)
	fromAny  func(any) (T, error)
	equal    func(a, b T) bool
	less     func(a, b T) bool
	// mask extracts the bit pattern of selectable kinds; nil elsewhere.
	mask func(T) uint64
}

// quoteJSON renders s as a JSON string literal.
func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshaling a string never fails; keep the fallback anyway.
		return strconv.Quote(s)
	}
	return string(b)
}

func coercionError(want Kind, raw gjson.Result) error {
	return fmt.Errorf("%w: %s from %s", ErrCoercion, want, raw.Type)
}

func boolOps() ops[bool] {
	return ops[bool]{
		kind:    KindBool,
		literal: strconv.FormatBool,
		fromJSON: func(r gjson.Result) (bool, error) {
			switch r.Type {
			case gjson.True, gjson.False:
				return r.Bool(), nil
			}
			return false, coercionError(KindBool, r)
		},
		fromAny: func(v any) (bool, error) {
			b, ok := v.(bool)
			if !ok {
				return false, fmt.Errorf("%w: bool from %T", ErrCoercion, v)
			}
			return b, nil
		},
		equal: func(a, b bool) bool { return a == b },
		less:  func(a, b bool) bool { return !a && b },
	}
}

func signedOps[T signedInt](kind Kind, bitSize int) ops[T] {
	return ops[T]{
		kind:    kind,
		literal: func(v T) string { return strconv.FormatInt(int64(v), 10) },
		fromJSON: func(r gjson.Result) (T, error) {
			if r.Type != gjson.Number {
				return 0, coercionError(kind, r)
			}
			n, err := strconv.ParseInt(r.Raw, 10, bitSize)
			if err != nil {
				return 0, fmt.Errorf("%w: %s from %q", ErrCoercion, kind, r.Raw)
			}
			return T(n), nil
		},
		fromAny: func(v any) (T, error) {
			n, err := anyToInt64(v)
			if err != nil {
				return 0, fmt.Errorf("%w: %s from %T", ErrCoercion, kind, v)
			}
			if fitsSigned(n, bitSize) {
				return T(n), nil
			}
			return 0, fmt.Errorf("%w: %d overflows %s", ErrCoercion, n, kind)
		},
		equal: func(a, b T) bool { return a == b },
		less:  func(a, b T) bool { return a < b },
	}
}

func unsignedOps[T unsignedInt](kind Kind, bitSize int) ops[T] {
	return ops[T]{
		kind:    kind,
		literal: func(v T) string { return strconv.FormatUint(uint64(v), 10) },
		fromJSON: func(r gjson.Result) (T, error) {
			if r.Type != gjson.Number {
				return 0, coercionError(kind, r)
			}
			n, err := strconv.ParseUint(r.Raw, 10, bitSize)
			if err != nil {
				return 0, fmt.Errorf("%w: %s from %q", ErrCoercion, kind, r.Raw)
			}
			return T(n), nil
		},
		fromAny: func(v any) (T, error) {
			n, err := anyToUint64(v)
			if err != nil {
				return 0, fmt.Errorf("%w: %s from %T", ErrCoercion, kind, v)
			}
			if bitSize < 64 && n >= uint64(1)<<bitSize {
				return 0, fmt.Errorf("%w: %d overflows %s", ErrCoercion, n, kind)
			}
			return T(n), nil
		},
		equal: func(a, b T) bool { return a == b },
		less:  func(a, b T) bool { return a < b },
	}
}

func floatOps[T ~float32 | ~float64](kind Kind, bitSize int) ops[T] {
	return ops[T]{
		kind: kind,
		literal: func(v T) string {
			return strconv.FormatFloat(float64(v), 'g', -1, bitSize)
		},
		fromJSON: func(r gjson.Result) (T, error) {
			if r.Type != gjson.Number {
				return 0, coercionError(kind, r)
			}
			f, err := strconv.ParseFloat(r.Raw, bitSize)
			if err != nil {
				return 0, fmt.Errorf("%w: %s from %q", ErrCoercion, kind, r.Raw)
			}
			return T(f), nil
		},
		fromAny: func(v any) (T, error) {
			switch f := v.(type) {
			case float64:
				return T(f), nil
			case float32:
				return T(f), nil
			case int:
				return T(f), nil
			case int64:
				return T(f), nil
			}
			return 0, fmt.Errorf("%w: %s from %T", ErrCoercion, kind, v)
		},
		equal: func(a, b T) bool { return a == b },
		less:  func(a, b T) bool { return a < b },
	}
}

func decimalOps() ops[decimal.Decimal] {
	return ops[decimal.Decimal]{
		kind:    KindDecimal,
		literal: func(v decimal.Decimal) string { return v.String() },
		fromJSON: func(r gjson.Result) (decimal.Decimal, error) {
			switch r.Type {
			case gjson.Number:
				return decimal.NewFromString(r.Raw)
			case gjson.String:
				d, err := decimal.NewFromString(r.Str)
				if err != nil {
					return decimal.Decimal{}, coercionError(KindDecimal, r)
				}
				return d, nil
			}
			return decimal.Decimal{}, coercionError(KindDecimal, r)
		},
		fromAny: func(v any) (decimal.Decimal, error) {
			switch d := v.(type) {
			case decimal.Decimal:
				return d, nil
			case string:
				return decimal.NewFromString(d)
			case int:
				return decimal.NewFromInt(int64(d)), nil
			case int64:
				return decimal.NewFromInt(d), nil
			case float64:
				return decimal.NewFromFloat(d), nil
			}
			return decimal.Decimal{}, fmt.Errorf("%w: decimal from %T", ErrCoercion, v)
		},
		equal: func(a, b decimal.Decimal) bool { return a.Equal(b) },
		less:  func(a, b decimal.Decimal) bool { return a.LessThan(b) },
	}
}

func stringOps() ops[string] {
	return ops[string]{
		kind:    KindString,
		literal: quoteJSON,
		fromJSON: func(r gjson.Result) (string, error) {
			if r.Type != gjson.String {
				return "", coercionError(KindString, r)
			}
			return r.Str, nil
		},
		fromAny: func(v any) (string, error) {
			s, ok := v.(string)
			if !ok {
				return "", fmt.Errorf("%w: string from %T", ErrCoercion, v)
			}
			return s, nil
		},
		equal: func(a, b string) bool { return a == b },
		less:  func(a, b string) bool { return a < b },
	}
}

// Byte sequences travel as base64 string literals in the persisted form.
func bytesOps() ops[[]byte] {
	return ops[[]byte]{
		kind: KindBytes,
		literal: func(v []byte) string {
			return quoteJSON(base64.StdEncoding.EncodeToString(v))
		},
		fromJSON: func(r gjson.Result) ([]byte, error) {
			if r.Type != gjson.String {
				return nil, coercionError(KindBytes, r)
			}
			b, err := base64.StdEncoding.DecodeString(r.Str)
			if err != nil {
				return nil, fmt.Errorf("%w: bytes from %q", ErrCoercion, r.Str)
			}
			return b, nil
		},
		fromAny: func(v any) ([]byte, error) {
			switch b := v.(type) {
			case []byte:
				return append([]byte(nil), b...), nil
			case string:
				return []byte(b), nil
			}
			return nil, fmt.Errorf("%w: bytes from %T", ErrCoercion, v)
		},
		equal: bytes.Equal,
		less:  func(a, b []byte) bool { return bytes.Compare(a, b) < 0 },
	}
}

func netAddrOps() ops[netip.Addr] {
	return ops[netip.Addr]{
		kind:    KindNetAddr,
		literal: func(v netip.Addr) string { return quoteJSON(v.String()) },
		fromJSON: func(r gjson.Result) (netip.Addr, error) {
			if r.Type != gjson.String {
				return netip.Addr{}, coercionError(KindNetAddr, r)
			}
			addr, err := netip.ParseAddr(r.Str)
			if err != nil {
				return netip.Addr{}, fmt.Errorf("%w: netaddr from %q", ErrCoercion, r.Str)
			}
			return addr, nil
		},
		fromAny: func(v any) (netip.Addr, error) {
			switch a := v.(type) {
			case netip.Addr:
				return a, nil
			case string:
				return netip.ParseAddr(a)
			}
			return netip.Addr{}, fmt.Errorf("%w: netaddr from %T", ErrCoercion, v)
		},
		equal: func(a, b netip.Addr) bool { return a == b },
		less:  func(a, b netip.Addr) bool { return a.Less(b) },
	}
}

func anyToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	}
	return 0, ErrCoercion
}

func anyToUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case int:
		if n < 0 {
			return 0, ErrCoercion
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, ErrCoercion
		}
		return uint64(n), nil
	}
	return 0, ErrCoercion
}

func fitsSigned(n int64, bitSize int) bool {
	if bitSize >= 64 {
		return true
	}
	limit := int64(1) << (bitSize - 1)
	return n >= -limit && n < limit
}
