/*
errors.go - Error types for the calculation engine

PURPOSE:
  The engine has exactly one failure mode: invalid input. Everything else
  is a computed value (including the negative principal-paid shortfall
  signal, which is deliberately NOT an error). No function retries and no
  function logs; failures propagate to the immediate caller.

USAGE:
  Callers classify with errors.Is:

    if errors.Is(err, engine.ErrInvalidInput) {
        // reject the request, 400-style
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel all malformed or out-of-domain inputs
// unwrap to: negative amounts where not permitted, non-positive durations,
// or date ordering that is not an explicitly handled negative-duration case.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError carries which input was rejected and why.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput builds an InvalidInputError for the given field.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is an input-domain rejection.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
