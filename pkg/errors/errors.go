// Package errors provides structured error types for the isochrone workspace engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the persistence engine, registries, and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Registry and mutation failures are deterministic validation failures, not
// transient faults: callers treat a failed operation as a no-op and never retry.
// Element-level load failures are logged and skipped by the persistence engine;
// only root-structure failures carry their code out of Load.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAlreadyExists, "service %q already exists", name)
//	if errors.Is(err, errors.ErrCodeAlreadyExists) {
//	    // Handle duplicate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternal, parseErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// ErrCodeInvalidArgument marks a malformed or missing required field.
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"

	// ErrCodeAlreadyExists marks a duplicate name or id, or a re-load attempt
	// on an already-loaded workspace.
	ErrCodeAlreadyExists Code = "ALREADY_EXISTS"

	// ErrCodeAccessDenied marks an operation on a reserved name.
	ErrCodeAccessDenied Code = "ACCESS_DENIED"

	// ErrCodeInUse marks a deletion blocked by a live reference.
	ErrCodeInUse Code = "IN_USE"

	// ErrCodeNotFound marks a lookup miss.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeExternal marks a failure inside an underlying library
	// (typically the XML parser).
	ErrCodeExternal Code = "EXTERNAL_ERROR"

	// ErrCodeFailed marks a generic I/O failure.
	ErrCodeFailed Code = "FAILED"

	// ErrCodePartialFailure marks a batch operation where some elements
	// loaded and some did not. Used by the pin batch loader.
	ErrCodePartialFailure Code = "PARTIAL_FAILURE"

	// ErrCodeTotalFailure marks a batch operation where no element loaded.
	// Used by the pin batch loader.
	ErrCodeTotalFailure Code = "TOTAL_FAILURE"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
