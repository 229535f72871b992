package message

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the stable error kinds crossing the service boundary.
// Presentation adapters map codes to transport status; only STORAGE_FAILURE
// is eligible for caller-side retry.
type ErrorCode string

const (
	CodeInvalidMessage    ErrorCode = "INVALID_MESSAGE"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeInvalidQuery      ErrorCode = "INVALID_QUERY"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeMalformedCursor   ErrorCode = "MALFORMED_CURSOR"
	CodeStorageFailure    ErrorCode = "STORAGE_FAILURE"
)

// Error is a classified domain error. Reason is human-readable and safe to
// surface to callers; Err carries the underlying cause for diagnostics.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("message: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("message: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified Error.
func NewError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// CodeOf extracts the ErrorCode from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
