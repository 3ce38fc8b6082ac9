// Package errors provides the coded error type shared by the scaffold and
// harvest workflows.
//
// Every failure the CLI reports falls into one of a small set of categories:
//   - INPUT: missing file, empty path, user interrupt, existing project folder
//   - FORMAT: missing <ReactProject> tag, empty file attribute in a code block
//   - SUBPROCESS: non-zero exit from an invoked command
//   - NETWORK: non-200 response or transport failure talking to GitHub
//   - DECODE: malformed base64 payload in a harvested file
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFormat, "missing file name in code block %d", i)
//	if errors.Is(err, errors.ErrCodeFormat) {
//	    // Handle format error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "list %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents an error category.
type Code string

// Error codes for the error taxonomy.
const (
	ErrCodeInput      Code = "INPUT"
	ErrCodeFormat     Code = "FORMAT"
	ErrCodeSubprocess Code = "SUBPROCESS"
	ErrCodeNetwork    Code = "NETWORK"
	ErrCodeDecode     Code = "DECODE"

	// Validation errors
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeConfig         Code = "CONFIG"
)

// Error is a categorised error with an optional cause.
type Error struct {
	Code    Code   // Error category
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

// UserMessage returns the message without the code prefix.
// The cause of an *Error is appended; other errors are returned as-is.
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
