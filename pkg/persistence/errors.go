// Package persistence provides standardized error types for storage operations.
package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound indicates a process template was not found by the
	// given identifier.
	ErrTemplateNotFound = errors.New("process template not found")

	// ErrOrderNotFound indicates an order was not found by the given
	// identifier.
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification indicates the stored order version no longer
	// matches the version the caller read before updating.
	ErrConcurrentModification = errors.New("order was modified concurrently")
)

// OrderError wraps order-related storage errors with operation context.
type OrderError struct {
	Op      string // operation being performed (e.g. "Update", "Create")
	OrderID string
	Err     error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s operation failed for order %s: %v", e.Op, e.OrderID, e.Err)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func (e *OrderError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOrderError creates a new order storage error with context.
func NewOrderError(op, orderID string, err error) *OrderError {
	return &OrderError{Op: op, OrderID: orderID, Err: err}
}

// IsTemplateNotFound checks if an error indicates a missing template.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsOrderNotFound checks if an error indicates a missing order.
func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsConcurrentModification checks if an error indicates a lost update race.
func IsConcurrentModification(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
