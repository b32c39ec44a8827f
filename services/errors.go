package services

import (
	"errors"
	"fmt"

	"obras-backend/repositories"

	"github.com/shopspring/decimal"
)

// Kind is the machine-readable class of a service failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation"
	KindMissingSnapshot Kind = "missing_snapshot"
	KindOverpayment     Kind = "overpayment"
	KindConflict        Kind = "conflict"
	KindPersistence     Kind = "persistence"
)

// Error is returned by every service operation that fails.
type Error struct {
	Kind    Kind
	Message string
	// RemainingDebt is set for KindOverpayment.
	RemainingDebt *decimal.Decimal
	Err           error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a service error, or "" for any other error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func notFoundError(entity string, id uint) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", entity, id)}
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func missingSnapshotError(materialID uint, name, snapshot string) *Error {
	return &Error{
		Kind:    KindMissingSnapshot,
		Message: fmt.Sprintf("material %d (%s) has no recorded %s", materialID, name, snapshot),
	}
}

func overpaymentError(debt, amount decimal.Decimal) *Error {
	remaining := debt
	return &Error{
		Kind:          KindOverpayment,
		Message:       fmt.Sprintf("Payment amount exceeds the remaining debt: %s", debt.Sub(amount).StringFixed(2)),
		RemainingDebt: &remaining,
	}
}

func persistenceError(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op + " failed", Err: err}
}

// lookupError maps a repository lookup failure to NotFound or Persistence.
func lookupError(entity string, id uint, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError(entity, id)
	}
	return persistenceError("load "+entity, err)
}

// asServiceError leaves service errors untouched and wraps anything else as Persistence.
func asServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return persistenceError(op, err)
}
