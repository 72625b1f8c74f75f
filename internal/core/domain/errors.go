package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Engine errors, all expected and caller-facing
var (
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInsufficientStock      = errors.New("insufficient available stock")
	ErrToolUnderMaintenance   = errors.New("alat is under maintenance")
	ErrInvalidDateRange       = errors.New("planned return date is before loan date")
	ErrReconciliationMismatch = errors.New("returned unit split does not match loan quantity")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidAmount          = errors.New("fine amount must be positive")
	ErrMissingReason          = errors.New("rejection reason is required")
)

// ErrLedgerCorrupt indicates available stock would exceed total stock.
// This is a logic bug upstream, not a user error; it must surface as a
// server error and never be clamped away.
var ErrLedgerCorrupt = errors.New("stock ledger corrupt: available would exceed total")

// InvalidTransitionError carries the current and requested status of a
// rejected transition. errors.Is matches it against ErrInvalidTransition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ReconciliationMismatchError carries the expected loan quantity and the
// received unit-split total. errors.Is matches it against
// ErrReconciliationMismatch.
type ReconciliationMismatchError struct {
	Expected int
	Got      int
}

func (e *ReconciliationMismatchError) Error() string {
	return fmt.Sprintf("unit split totals %d units, loan quantity is %d", e.Got, e.Expected)
}

func (e *ReconciliationMismatchError) Is(target error) bool {
	return target == ErrReconciliationMismatch
}
