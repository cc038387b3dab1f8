package services

import (
	"errors"
	"fmt"

	"github.com/ida-management/backoffice/internal/domain"
)

var (
	// ErrInvalidInput signals the caller provided invalid data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates the requested record could not be located.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or concurrency conflict.
	ErrConflict = errors.New("conflict")
	// ErrStatusUnchanged indicates the requested status equals the current one.
	ErrStatusUnchanged = errors.New("status unchanged")
	// ErrInvalidTransition indicates the transition table forbids the move.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnavailable indicates a transient persistence failure.
	ErrUnavailable = errors.New("storage unavailable")
)

// StatusTransitionError details a rejected order status move.
type StatusTransitionError struct {
	OrderID string
	From    domain.OrderStatus
	To      domain.OrderStatus
}

// Error implements the error interface.
func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot transition from %s to %s", e.OrderID, e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
