package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the referenced entity does not exist, or sits
	// outside the caller's scope (reads deliberately do not distinguish).
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName indicates another product already holds the name.
	ErrDuplicateName = errors.New("product name already exists")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already exists")
	// ErrConcurrencyConflict indicates the record changed between read and
	// write; the caller should re-read and retry.
	ErrConcurrencyConflict = errors.New("record was modified by another transaction")
	// ErrHasDependentOrders blocks product deletion while orders reference it.
	ErrHasDependentOrders = errors.New("cannot delete product with existing orders")
	// ErrUnauthorized indicates a role or ownership violation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so login never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// InsufficientStockError reports an order quantity exceeding the stock seen
// inside the order transaction.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock. Available: %d, Requested: %d", e.Available, e.Requested)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
