package domain

import "errors"

// Trade failures returned by the trade engine. Callers match them with errors.Is.
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUnknownInstrument    = errors.New("unknown instrument")
	ErrInvalidQuantity      = errors.New("invalid quantity: must be a positive integer")
	ErrInvalidSymbol        = errors.New("invalid symbol: must not be empty")
)

// Lookup failures returned by repositories
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrHoldingNotFound = errors.New("holding not found")
)

// ErrStorageFailure marks errors raised by the persistence layer.
// A trade that fails with it has been rolled back and may be retried.
var ErrStorageFailure = errors.New("storage failure")

// StorageError wraps a driver error with the operation that produced it
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports StorageError as ErrStorageFailure
func (e *StorageError) Is(target error) bool { return target == ErrStorageFailure }

// NewStorageError builds a StorageError. It returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
