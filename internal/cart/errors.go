package cart

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingName is returned when the service name is empty
	ErrMissingName = errors.New("service name is required")

	// ErrNegativePrice is returned when the price is below zero
	ErrNegativePrice = errors.New("price must not be negative")

	// ErrInvalidKind is returned for an unknown service kind
	ErrInvalidKind = errors.New("service kind must be Group or Private")

	// ErrInvalidSessionCount is returned when sessions per week is not 1 or 2
	ErrInvalidSessionCount = errors.New("sessions per week must be 1 or 2")

	// ErrIncompleteSessions is returned when the session list does not match
	// the weekly session count
	ErrIncompleteSessions = errors.New("session list must match sessions per week")

	// ErrInvalidDay is returned for a day the academy does not offer
	ErrInvalidDay = errors.New("session day is not offered")

	// ErrRepeatedDay is returned when two sessions share a day
	ErrRepeatedDay = errors.New("session days must be unique")

	// ErrInvalidTime is returned for a slot not legal for the service kind
	ErrInvalidTime = errors.New("session time is not offered for this service kind")
)

// DuplicateError reports an add of a service/session combination that is
// already in the cart. The cart is left unchanged.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is already in your cart.", e.Name)
}

// ReadError reports a persisted cart record that could not be parsed. The
// cart recovers by resetting to empty; the error exists so callers can show
// a one-time notice.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("stored cart could not be read and was reset: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteWarning reports a durable write that failed after the in-memory cart
// was already updated. The mutation stands; the cart just will not survive
// a restart.
type WriteWarning struct {
	Err error
}

func (e *WriteWarning) Error() string {
	return fmt.Sprintf("cart was updated but could not be saved: %v", e.Err)
}

func (e *WriteWarning) Unwrap() error { return e.Err }
