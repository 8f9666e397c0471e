// Package dErrors provides coded domain errors.
//
// Every error crossing a service boundary carries a Code so callers can
// branch on the kind of failure without string matching. Infrastructure
// facts (pkg/platform/sentinel) are wrapped into these at the service layer.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeInvalidIdentifier marks malformed or unparseable election
	// identifier construction inputs.
	CodeInvalidIdentifier Code = "invalid_identifier"

	// CodeDivisionSetDateMismatch marks a division whose enclosing division
	// set window does not bracket the supplied poll date.
	CodeDivisionSetDateMismatch Code = "divisionset_date_mismatch"

	// CodeNotFound marks a lookup (including temporal lookups) with no
	// matching row.
	CodeNotFound Code = "not_found"

	// CodeConstraintViolation marks a write the persistence layer rejected:
	// an overlapping validity window or a duplicate natural key.
	CodeConstraintViolation Code = "constraint_violation"

	// CodeViolatedConstraint marks a failed moderation hierarchy check.
	CodeViolatedConstraint Code = "violated_constraint"

	// CodeBadRequest marks invalid caller input outside identifier
	// construction (empty keys, unknown statuses, bad transitions).
	CodeBadRequest Code = "bad_request"

	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's classification.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without code or cause.
func (e *Error) Message() string { return e.message }

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, keeping the
// cause reachable via errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...), cause: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain, or
// CodeInternal when err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
