// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-fifo.

package api

import "fmt"

// Sentinel error kinds used across the library. Concrete failures wrap one
// of these, so callers dispatch with errors.Is.
var (
	// ErrWouldBlock marks transient failures: the operation cannot make
	// progress right now and should be retried after the corresponding
	// readiness link fires.
	ErrWouldBlock = fmt.Errorf("operation would block")

	// ErrPeerClosed marks terminal failures: the opposite half of the
	// channel has been closed. The condition is permanent for the caller.
	ErrPeerClosed = fmt.Errorf("peer endpoint was closed")

	// ErrClosed reports use of a handle after its own Close.
	ErrClosed = fmt.Errorf("handle is closed")

	// ErrInvalidCapacity is returned by channel creation for a capacity
	// outside the supported range.
	ErrInvalidCapacity = fmt.Errorf("invalid capacity")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeWouldBlock
	ErrCodePeerClosed
	ErrCodeClosed
	ErrCodeInvalidCapacity
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap maps the code back to its sentinel, so structured errors stay
// errors.Is-matchable.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeWouldBlock:
		return ErrWouldBlock
	case ErrCodePeerClosed:
		return ErrPeerClosed
	case ErrCodeClosed:
		return ErrClosed
	case ErrCodeInvalidCapacity:
		return ErrInvalidCapacity
	}
	return nil
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
