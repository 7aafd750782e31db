package fixture

import (
	"errors"
	"fmt"
)

// StateError represents an ordering or typing mistake detected by the
// orchestration service. These are programmer errors, not transient
// faults: they are raised immediately and never retried.
type StateError struct {
	// Code identifies the error category.
	Code StateErrorCode

	// Op names the operation that detected the error.
	Op string

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// StateErrorCode categorizes state errors.
type StateErrorCode string

const (
	// ErrCodePrecondition indicates an operation was called before the
	// records it depends on were created.
	ErrCodePrecondition StateErrorCode = "PRECONDITION"

	// ErrCodeTypeMismatch indicates the last stored row does not have the
	// parent type a by-value related creator expects.
	ErrCodeTypeMismatch StateErrorCode = "TYPE_MISMATCH"

	// ErrCodeDuplicateKey indicates an insert reused an existing record key.
	ErrCodeDuplicateKey StateErrorCode = "DUPLICATE_KEY"
)

// Error implements the error interface.
func (e *StateError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPrecondition returns true if the error is a precondition violation.
// Uses errors.As to handle wrapped errors.
func IsPrecondition(err error) bool {
	var se *StateError
	if errors.As(err, &se) {
		return se.Code == ErrCodePrecondition
	}
	return false
}

// IsTypeMismatch returns true if the error is a parent-type mismatch.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var se *StateError
	if errors.As(err, &se) {
		return se.Code == ErrCodeTypeMismatch
	}
	return false
}

// IsDuplicateKey returns true if the error is a duplicate-key insert.
// Uses errors.As to handle wrapped errors.
func IsDuplicateKey(err error) bool {
	var se *StateError
	if errors.As(err, &se) {
		return se.Code == ErrCodeDuplicateKey
	}
	return false
}

// NewPreconditionError creates a StateError for an ordering violation.
func NewPreconditionError(op, message string) *StateError {
	return &StateError{
		Code:    ErrCodePrecondition,
		Op:      op,
		Message: message,
	}
}

// NewTypeMismatchError creates a StateError for a parent-type mismatch.
func NewTypeMismatchError(op, want, got string) *StateError {
	return &StateError{
		Code:    ErrCodeTypeMismatch,
		Op:      op,
		Message: fmt.Sprintf("last record row is %s, want %s", got, want),
		Details: map[string]string{
			"want": want,
			"got":  got,
		},
	}
}

// NewDuplicateKeyError creates a StateError for a reused record key.
func NewDuplicateKeyError(op, key string) *StateError {
	return &StateError{
		Code:    ErrCodeDuplicateKey,
		Op:      op,
		Message: fmt.Sprintf("record %q already exists", key),
		Details: map[string]string{
			"key": key,
		},
	}
}
