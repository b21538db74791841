package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller may not perform the requested action.
var ErrForbidden = errors.New("forbidden")

// Ledger errors. Each one wraps ErrValidation, ErrNotFound or stands alone so
// handlers can map whole families with a single errors.Is check.
var (
	// ErrUnknownParticipant is returned when a referenced participant is not registered in the group.
	ErrUnknownParticipant = fmt.Errorf("%w: unknown participant", ErrNotFound)

	// ErrShareMismatch is returned when explicit shares do not add up to the expense total.
	ErrShareMismatch = fmt.Errorf("%w: shares do not sum to total amount", ErrValidation)

	// ErrInvalidAmount is returned for non-positive, over-precise or over-limit amounts.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

	// ErrCurrencyMismatch is returned when an event's currency differs from the group currency.
	ErrCurrencyMismatch = fmt.Errorf("%w: currency does not match group currency", ErrValidation)

	// ErrAlreadyReversed is returned when reversing an entry that already has a reversal.
	ErrAlreadyReversed = errors.New("ledger entry already reversed")

	// ErrConcurrentModification is returned when an append lost a write race. Safe to retry.
	ErrConcurrentModification = errors.New("concurrent modification of group ledger")

	// ErrLedgerCorrupted is fatal: the stored ledger no longer satisfies its sum invariants.
	ErrLedgerCorrupted = errors.New("ledger corrupted")
)

// AppError carries an internal status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
