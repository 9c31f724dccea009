// Package errors provides structured error types for furnace.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the server and the library
//   - Machine-readable error codes for programmatic handling
//   - A clear split between fatal request/project errors and per-file issues
//
// # Error Codes
//
// Fatal codes abort an invocation before any artifact is produced:
//   - DISCOVERY: no manifest anywhere under the project root
//   - CONFIG: unknown preset, axis value, output format or config entry
//   - INVALID_INPUT: malformed request (missing root, bad worker count)
//
// Recorded codes never propagate past a file boundary. The builder turns
// them into issues attached to the graph:
//   - IO: a path could not be read
//   - EXTRACTION: declarations could not be derived from a file
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "unknown preset %q", name)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal, project or request level
	ErrCodeDiscovery    Code = "DISCOVERY"
	ErrCodeConfig       Code = "CONFIG"
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Recorded, file level
	ErrCodeIO         Code = "IO"
	ErrCodeExtraction Code = "EXTRACTION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err aborts a whole invocation. Per-file codes
// (IO, EXTRACTION) are recorded in the graph instead and are never fatal
// on their own.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeIO, ErrCodeExtraction:
		return false
	default:
		return true
	}
}
