package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by storage, services and transports
var (
	// ErrValidation is returned when a required field is empty
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced word or group does not exist
	ErrNotFound = errors.New("not found")

	// ErrTransport is returned when a storage call fails or times out
	ErrTransport = errors.New("storage unavailable")

	// ErrSessionState is returned when a practice call is made in the wrong state
	ErrSessionState = errors.New("invalid practice session state")
)

// NewValidationError wraps ErrValidation with the offending field
func NewValidationError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// NewNotFoundError wraps ErrNotFound with the kind of entity and its key
func NewNotFoundError(entity string, key any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, entity, key)
}

// NewTransportError wraps a storage failure so it matches ErrTransport
// while keeping the original cause reachable with errors.Is/As.
func NewTransportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}

// IsDomainError reports whether err already carries one of the domain error kinds
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrSessionState)
}

// AsTransport classifies an unknown failure as a transport error.
// Errors that already carry a domain kind are returned unchanged.
func AsTransport(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return NewTransportError(op, err)
}
