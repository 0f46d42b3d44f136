package core

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a missing entity. Services wrap it with the entity and
// key so handlers can map errors.Is(err, ErrNotFound) to HTTP 404.
var ErrNotFound = errors.New("not found")

// Sentinel validation failures. Callers match these programmatically;
// ValidationError carries the offending field for user-facing messages.
var (
	ErrQuantityNotPositive = errors.New("quantity must be greater than zero")
	ErrRateNegative        = errors.New("rate cannot be negative")
	ErrTaxableNegative     = errors.New("taxable value cannot be negative")
	ErrTaxOutOfRange       = errors.New("tax percentage must be between 0 and 100")
	ErrNoItems             = errors.New("invoice must have at least one item")
	ErrEmailTaken          = errors.New("a user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidTransition   = errors.New("invalid invoice status transition")
)

// ValidationError wraps a sentinel error with the field that failed.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
