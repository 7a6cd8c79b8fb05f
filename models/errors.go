package models

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Handlers map these onto HTTP statuses, services
// return them verbatim so callers can react (retry is never automatic).
var (
	// ErrNotFound signals a lookup or state transition with no matching row,
	// e.g. closing a debt that is not open or deleting an unknown transaction.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds signals that the combined budget across all
	// categories cannot cover a debt settlement. Business rule, not storage.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ValidationError reports unusable caller input (empty debt name, zero
// transaction amount, unknown transaction type).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a failure of the ledger store. The operation it aborted
// left no partial state behind.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
