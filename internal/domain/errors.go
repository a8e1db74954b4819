// Package domain contains the bookstore entities, their identifiers and status
// vocabularies, and the errors raised when untrusted input cannot be turned
// into them. Domain errors are infrastructure-agnostic; adapters map them to
// HTTP or CLI output.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Service errors and mapping errors belong
// to different families: only mapping errors unwrap to ErrValidation.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the entity clashes with one that already exists.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates input could not be mapped to a valid entity.
	// Every MappingError unwraps to it.
	ErrValidation = errors.New("invalid input")
)

// NotFoundError reports a lookup of an unknown entity.
type NotFoundError struct {
	Entity string
	ID     ID
}

func (e *NotFoundError) Error() string {
	if !e.ID.IsNil() {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError reports that no entity of kind entity has id. A NilID
// leaves the identifier out of the message.
func NewNotFoundError(entity string, id ID) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports an entity that collides with existing state, such as
// a discount code string that is already taken.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError reports a clash with existing state.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation reports whether err is a mapping error or otherwise wraps
// ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
