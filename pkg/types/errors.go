package types

import (
	"errors"
	"fmt"
)

// Store operation errors.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrBadHandle         = errors.New("row handle out of range")
	ErrNotAttached       = errors.New("store is not attached")
	ErrAlreadyAttached   = errors.New("store is already attached")
)

// Record validation errors.
var (
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrMissingField    = errors.New("missing required field")
)

// Error kinds classify store failures so the presentation layer can decide
// how to surface them. The core never swallows the kind.
const (
	ErrKindConnectivity = "connectivity"
	ErrKindNotFound     = "not_found"
	ErrKindBadHandle    = "bad_handle"
)

// StoreError wraps a backend failure with its kind and the affected
// collection.
type StoreError struct {
	Kind       string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Collection, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a classified store error.
func NewStoreError(kind, collection string, err error) *StoreError {
	return &StoreError{Kind: kind, Collection: collection, Err: err}
}

// ErrKind extracts the kind of a store error, or the empty string when the
// error is not a StoreError.
func ErrKind(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
