package model

import (
	"errors"
	"fmt"
)

// Business-rule errors surfaced to the caller as typed failures.
// They never leave the cache or store in a partially mutated state.
var (
	// ErrInsufficientStock means a sale asked for more units than on hand.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrAlreadyRecordedToday means attendance for the current calendar day
	// already exists for the subscriber.
	ErrAlreadyRecordedToday = errors.New("attendance already recorded today")

	// ErrSubscriptionExpired means the operation requires a non-expired
	// subscription (frozen is allowed).
	ErrSubscriptionExpired = errors.New("subscription expired")

	// ErrDuplicateActiveSubscriber means a non-expired subscriber with the
	// same name already exists. This is an advisory policy check, not a
	// database constraint.
	ErrDuplicateActiveSubscriber = errors.New("subscriber with this name already exists")

	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrClassNotFound      = errors.New("individual class not found")
)

// ValidationError reports rejected input: a missing required field or an
// out-of-range numeric value. Field names refer to the input struct fields.
type ValidationError struct {
	Fields []string // offending fields, in declaration order
	Err    error    // underlying validator error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed: %v", e.Fields)
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
