// Package errors provides structured error types for the luxbin entanglement stack.
//
// Errors carry a machine-readable [Code] so that the CLI and the HTTP API can
// react to a failure without parsing its message:
//   - INVALID_*: configuration and input validation failures
//   - *_NOT_FOUND: unknown sessions or backends
//   - BACKEND_* / PROVIDER_*: execution collaborator failures
//   - INTERNAL_*: unexpected internal errors
//
// Transient protocol failures (routing timing mismatch, missed heralding) are
// never reported through this package. They only show up in a session result.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "max retries must be >= 1, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // reject configuration
//	}
//
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "append session %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidCircuit    Code = "INVALID_CIRCUIT"
	ErrCodeQubitOutOfRange   Code = "QUBIT_OUT_OF_RANGE"
	ErrCodeInvalidDDSequence Code = "INVALID_DD_SEQUENCE"
	ErrCodeInvalidNode       Code = "INVALID_NODE"
	ErrCodeInvalidBellState  Code = "INVALID_BELL_STATE"

	// Protocol misuse
	ErrCodeNotEntangled Code = "NOT_ENTANGLED"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeBackendNotFound Code = "BACKEND_NOT_FOUND"

	// Execution collaborator errors
	ErrCodeBackendUnavailable  Code = "BACKEND_UNAVAILABLE"
	ErrCodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
	ErrCodeNetwork             Code = "NETWORK_ERROR"
	ErrCodeTimeout             Code = "TIMEOUT"

	// Persistence errors
	ErrCodeStore Code = "STORE_ERROR"

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

// IsValidation reports whether err carries one of the input or configuration codes.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidCircuit,
		ErrCodeQubitOutOfRange, ErrCodeInvalidDDSequence, ErrCodeInvalidNode,
		ErrCodeInvalidBellState:
		return true
	}
	return false
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
