// Package service implements the ledger's use cases on top of the
// storage and authorization layers. Services validate input, consult the
// authorization policy, and delegate all multi-row writes to the store so
// they stay transactional.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when the authorization policy denies an
	// action. No state is changed and no audit row is written.
	ErrForbidden = errors.New("permission denied")

	// ErrConflict is returned when an operation would leave the ledger in
	// an inconsistent state, such as removing the last member while they
	// still paid for live expenses.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
