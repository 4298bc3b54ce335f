package store

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means a referenced id did not resolve under the
	// caller's scope. Callers must never mistake it for success.
	ErrNotFound = errors.New("row not found")

	// ErrForbidden is a policy rejection reported by the store.
	ErrForbidden = errors.New("forbidden by row policy")

	// ErrHasDependents means a referential constraint blocked the write.
	ErrHasDependents = errors.New("dependent rows exist")
)

// ValidationError rejects malformed input before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TransientError marks connectivity failures a caller may retry. The
// store itself never retries.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient store error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// StoreError carries an unclassifiable store failure verbatim so it is
// never silently swallowed.
type StoreError struct {
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error %s: %s", e.Code, e.Message)
	}
	return "store error: " + e.Message
}

const (
	pgForeignKeyViolation    = "23503"
	pgInsufficientPrivilege  = "42501"
	pgConnectionExceptionCls = "08"
)

// classify maps a driver error onto the error taxonomy. Classification
// uses structured error codes only, never message text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrHasDependents, pgErr.ConstraintName)
		case pgErr.Code == pgInsufficientPrivilege:
			return ErrForbidden
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgConnectionExceptionCls:
			return &TransientError{Err: err}
		default:
			return &StoreError{Code: pgErr.Code, Message: pgErr.Message}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.Timeout(err) {
		return &TransientError{Err: err}
	}

	return &StoreError{Message: err.Error()}
}
