// Package errors provides standardized domain errors with codes for the Wishboard bot.
//
// Usage:
//
//	// In services - return typed errors
//	if store.Contains(col, appID) {
//	    return errors.AlreadyExists("already on the wishlist")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrValidation) {
//	    reply(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	// CodeValidation covers rejected input: wrong channel, duplicate
	// submission, unknown classification.
	CodeValidation Code = "VALIDATION"
	// CodeNotFound covers catalog misses: no search candidates, absent
	// detail record.
	CodeNotFound Code = "NOT_FOUND"
	// CodeAlreadyExists covers dedup rejections.
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	// CodeUnavailable covers transient external failures: timeouts,
	// non-2xx responses, malformed payloads. Never cached, never retried.
	CodeUnavailable Code = "UNAVAILABLE"
	// CodeInternal covers everything else.
	CodeInternal Code = "INTERNAL"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnavailable   = &Error{Code: CodeUnavailable, Message: "service unavailable"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// AlreadyExistsf creates an already exists error with formatted message.
func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Unavailable creates an unavailable error.
func Unavailable(msg string) *Error {
	return &Error{Code: CodeUnavailable, Message: msg}
}

// Unavailablef creates an unavailable error with formatted message.
func Unavailablef(format string, args ...any) *Error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// UserMessage returns the text suitable for an ephemeral user-facing reply.
// Domain errors surface their message; anything else gets a generic line so
// internal details never leak into chat.
func UserMessage(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case CodeValidation, CodeNotFound, CodeAlreadyExists:
			return domainErr.Message
		case CodeUnavailable:
			return "The game catalog is not responding right now, try again in a bit."
		}
	}
	return "Something went wrong handling that, try again later."
}
