// errors.go
package prefdoc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName     = errors.New("invalid preference name")
	ErrNilArgument     = errors.New("nil argument")
	ErrNilProcessor    = errors.New("nil validity processor")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrNotFound        = errors.New("name not found")
	ErrAlreadyOwned    = errors.New("preference already owned by a container")
	ErrKindMismatch    = errors.New("kind mismatch")
	ErrItemMismatch    = errors.New("store item kind mismatch")
	ErrValueNotAllowed = errors.New("value not in allowed set")
	ErrValidation      = errors.New("validity check failed")
	ErrValueAbsent     = errors.New("value is null")
	ErrCoercion        = errors.New("cannot coerce value")

	// ErrDocumentNotFound is returned by document stores when the backing
	// document does not exist yet.
	ErrDocumentNotFound = errors.New("document not found")
)

// BuildError wraps any failure raised while constructing a Preference or
// applying a value through a typed setter. The originating cause is
// preserved so callers can branch on it with errors.Is.
type BuildError struct {
	Name  string
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("preference %q: %v", e.Name, e.Cause)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

func newBuildError(name string, cause error) *BuildError {
	return &BuildError{Name: name, Cause: cause}
}
