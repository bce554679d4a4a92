package eventsourcing

import (
	"errors"
	"fmt"
)

var (
	// ErrAggregateNotFound is returned when an aggregate doesn't exist.
	ErrAggregateNotFound = errors.New("aggregate not found")

	// ErrConcurrencyConflict is returned when there's an optimistic concurrency conflict.
	ErrConcurrencyConflict = errors.New("concurrency conflict: aggregate version mismatch")

	// ErrInvalidVersion is returned when an invalid version is provided.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrUnknownEventType is returned when replay encounters an unregistered event type.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrValidation classifies argument validation failures: malformed or
	// missing input, detected before any state mutation.
	ErrValidation = errors.New("validation failure")

	// ErrInvalidOperation classifies illegal state transitions: the operation
	// is well formed but not legal given current aggregate state.
	ErrInvalidOperation = errors.New("invalid operation")
)

// DomainError is a classified domain failure raised by an aggregate command.
// Match the classification with errors.Is against ErrValidation or
// ErrInvalidOperation.
type DomainError struct {
	kind    error
	message string
}

func (e *DomainError) Error() string {
	return e.message
}

func (e *DomainError) Is(target error) bool {
	return target == e.kind
}

// NewValidationError creates an argument validation failure.
func NewValidationError(format string, args ...any) error {
	return &DomainError{kind: ErrValidation, message: fmt.Sprintf(format, args...)}
}

// NewInvalidOperationError creates an illegal state transition failure.
func NewInvalidOperationError(format string, args ...any) error {
	return &DomainError{kind: ErrInvalidOperation, message: fmt.Sprintf(format, args...)}
}
