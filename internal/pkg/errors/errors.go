package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrValidation is the sentinel all ValidationError values wrap.
	ErrValidation = errors.New("validation failed")
	// ErrTypeNotAllowed is the sentinel all TypeNotAllowedError values wrap.
	ErrTypeNotAllowed = errors.New("acceptance type not allowed")
	// ErrDuplicateKey is the sentinel all DuplicateKeyError values wrap.
	ErrDuplicateKey = errors.New("duplicate natural key")
)

// ValidationError rejects malformed input (bad PK range, unknown side,
// empty required vocabulary) before anything touches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TypeNotAllowedError is raised at write time when a requested acceptance
// type falls outside the governing set for its check. Write paths reject;
// they never silently drop the offending type.
type TypeNotAllowedError struct {
	CheckName string
	Rejected  []string
	Allowed   []string
}

func (e *TypeNotAllowedError) Error() string {
	return fmt.Sprintf("check %q does not allow types [%s] (allowed: [%s])",
		e.CheckName, strings.Join(e.Rejected, ", "), strings.Join(e.Allowed, ", "))
}

func (e *TypeNotAllowedError) Unwrap() error { return ErrTypeNotAllowed }

// DuplicateKeyError is raised when a create/update would collide with an
// existing entry on the natural key. Merging duplicates is a deliberate
// batch operation, never an implicit side effect of a write.
type DuplicateKeyError struct {
	ExistingID int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("entry with the same natural key already exists (id=%d)", e.ExistingID)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
