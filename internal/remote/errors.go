package remote

import (
	"errors"
	"fmt"
)

// Kind categorizes store errors into the closed set callers can branch on.
type Kind string

const (
	// KindTransient indicates a network-level or server-side failure that a
	// later attempt may not hit. The sync core never retries automatically;
	// the next debounced cycle is the de facto retry.
	KindTransient Kind = "TRANSIENT"

	// KindNotFound indicates the addressed record does not exist remotely.
	KindNotFound Kind = "NOT_FOUND"

	// KindConflict indicates the store rejected a write due to a
	// server-side constraint.
	KindConflict Kind = "CONFLICT"
)

// StoreError represents a failed remote-store operation.
//
// Errors carry the operation name and, where relevant, the record identity,
// so the single "last error" surfaced to the UI remains diagnosable.
type StoreError struct {
	// Kind identifies the error category.
	Kind Kind

	// Op is the failed operation ("read_all", "upsert", "delete").
	Op string

	// Identity is the affected record, when the operation targets one.
	Identity string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("%s: remote %s failed for %s: %v", e.Kind, e.Op, e.Identity, e.Err)
	}
	return fmt.Sprintf("%s: remote %s failed: %v", e.Kind, e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsTransient returns true if the error is a transient store failure.
// Uses errors.As to handle wrapped errors.
func IsTransient(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == KindTransient
	}
	return false
}

// IsNotFound returns true if the error reports a missing record.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == KindNotFound
	}
	return false
}

// IsConflict returns true if the error reports a store-side conflict.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == KindConflict
	}
	return false
}

// NewTransientError wraps a cause as a transient failure of op.
func NewTransientError(op string, err error) *StoreError {
	return &StoreError{Kind: KindTransient, Op: op, Err: err}
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(op, identity string) *StoreError {
	return &StoreError{Kind: KindNotFound, Op: op, Identity: identity, Err: errors.New("record not found")}
}

// NewConflictError reports a store-side write conflict.
func NewConflictError(op string, err error) *StoreError {
	return &StoreError{Kind: KindConflict, Op: op, Err: err}
}
