// validity.go
package prefdoc

import (
	"fmt"
	"strings"
)

// Result is the outcome of a validity check. A valid result may carry a
// normalized replacement for the candidate (for example a trimmed string);
// an invalid result carries the reason the candidate was rejected.
type Result[T any] struct {
	replacement *T
	err         error
}

// Valid reports the candidate as acceptable unchanged.
func Valid[T any]() Result[T] {
	return Result[T]{}
}

// ValidReplace reports the candidate as acceptable, substituting v for it.
func ValidReplace[T any](v T) Result[T] {
	return Result[T]{replacement: &v}
}

// Invalid rejects the candidate with the given reason.
func Invalid[T any](reason string) Result[T] {
	return Result[T]{err: fmt.Errorf("%w: %s", ErrValidation, reason)}
}

// InvalidErr rejects the candidate, wrapping cause under ErrValidation.
func InvalidErr[T any](cause error) Result[T] {
	return Result[T]{err: fmt.Errorf("%w: %w", ErrValidation, cause)}
}

// Processor inspects a candidate value before it is accepted into a
// Preference. Processors compose by chaining: each receives the possibly
// replaced output of the previous one.
type Processor[T any] func(candidate T) Result[T]

// runProcessors threads candidate through the chain, returning the final
// (possibly replaced) value or the first rejection.
func runProcessors[T any](procs []Processor[T], candidate T) (T, error) {
	v := candidate
	for _, p := range procs {
		res := p(v)
		if res.err != nil {
			return v, res.err
		}
		if res.replacement != nil {
			v = *res.replacement
		}
	}
	return v, nil
}

// ordered covers the kinds with a natural total order.
type ordered interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// GreaterThan accepts only candidates strictly greater than min.
func GreaterThan[T ordered](min T) Processor[T] {
	return func(candidate T) Result[T] {
		if candidate > min {
			return Valid[T]()
		}
		return Invalid[T](fmt.Sprintf("%v is not greater than %v", candidate, min))
	}
}

// EqualTo accepts only candidates equal to want.
func EqualTo[T comparable](want T) Processor[T] {
	return func(candidate T) Result[T] {
		if candidate == want {
			return Valid[T]()
		}
		return Invalid[T](fmt.Sprintf("%v is not equal to %v", candidate, want))
	}
}

// NotEqualTo rejects candidates equal to unwanted.
func NotEqualTo[T comparable](unwanted T) Processor[T] {
	return func(candidate T) Result[T] {
		if candidate != unwanted {
			return Valid[T]()
		}
		return Invalid[T](fmt.Sprintf("%v is not permitted", candidate))
	}
}

// Trimmed replaces string candidates with their whitespace-trimmed form.
func Trimmed() Processor[string] {
	return func(candidate string) Result[string] {
		return ValidReplace(strings.TrimSpace(candidate))
	}
}

// NonBlank rejects strings that are empty or whitespace only.
func NonBlank() Processor[string] {
	return func(candidate string) Result[string] {
		if strings.TrimSpace(candidate) == "" {
			return Invalid[string]("value is blank")
		}
		return Valid[string]()
	}
}

// NonZeroFlags rejects the empty flag combination. Intended for choice and
// flags preferences, whose payload is the enumerant bit value.
func NonZeroFlags() Processor[uint64] {
	return func(candidate uint64) Result[uint64] {
		if candidate == 0 {
			return Invalid[uint64]("no flag set")
		}
		return Valid[uint64]()
	}
}
