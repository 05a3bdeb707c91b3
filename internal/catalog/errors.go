package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for storefront API operations.
var (
	ErrNotFound    = errors.New("catalog: not found")
	ErrBadStatus   = errors.New("catalog: unexpected status")
	ErrMalformed   = errors.New("catalog: malformed response")
	ErrUnreachable = errors.New("catalog: request failed")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "search", "fetchDetails"
	AppID int    // If applicable
	Err   error
}

func (e *Error) Error() string {
	if e.AppID != 0 {
		return fmt.Sprintf("catalog %s [%d]: %v", e.Op, e.AppID, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, appID int, err error) error {
	return &Error{Op: op, AppID: appID, Err: err}
}
