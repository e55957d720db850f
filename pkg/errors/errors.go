// Package errors provides structured error types for cfgview.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the viewer session
//   - Machine-readable error codes for programmatic handling
//   - Naming of the offending input field for validation failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation or parse failures
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Taxonomy
//
// Two input failures are distinguished:
//
//   - ValidationError (code INVALID_INPUT): the payload decoded, but required fields
//     are missing or malformed, or an edge references an unknown node.
//   - ParseError (code INVALID_FORMAT): the payload could not be decoded at all.
//
// # Usage
//
//	err := errors.Validation("edges[3].sourceId", "edge references unknown node id %d", 5)
//	if errors.IsValidation(err) {
//	    // report to the user, keep the previous graph
//	}
//
//	// Wrap existing errors
//	err := errors.Parse(origErr, "decode input")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeNodeNotFound    Code = "NOT_FOUND_NODE"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeNoGraph         Code = "NO_GRAPH"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Offending input field, e.g. "edges[2].destId" (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// Validation creates a ValidationError naming the offending field.
func Validation(field, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
	}
}

// Parse creates a ParseError wrapping the decoder failure.
func Parse(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeInvalidFormat, cause, format, args...)
}

// WithCause attaches an underlying cause and returns e.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
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

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return Is(err, ErrCodeInvalidInput) }

// IsParse reports whether err is a ParseError.
func IsParse(err error) bool { return Is(err, ErrCodeInvalidFormat) }

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetField extracts the offending field from an error, if available.
func GetField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Field != "" {
			return e.Field + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
