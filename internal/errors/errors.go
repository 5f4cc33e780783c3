package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrRequest = "REQUEST" // server answered with a non-2xx status
	ErrNetwork = "NETWORK" // no response obtained at all
	ErrDecode  = "DECODE"  // response body was not the expected JSON
	ErrInput   = "INPUT"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error

	// Op names the backend operation for API errors (e.g. "get alerts").
	Op string
	// Status is the HTTP status code for ErrRequest errors, zero otherwise.
	Status int
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrNetwork code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrNetwork,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// RequestFailed reports that the backend answered op with a failure status.
func RequestFailed(op string, status int, cause error) *Error {
	return &Error{
		Code:       ErrRequest,
		Op:         op,
		Status:     status,
		Message:    fmt.Sprintf("Failed to %s (HTTP %d)", op, status),
		Suggestion: "The bin backend rejected the request; check its logs",
		Cause:      cause,
	}
}

// NetworkUnavailable reports that op got no response from the backend.
func NetworkUnavailable(op string, cause error) *Error {
	return &Error{
		Code:       ErrNetwork,
		Op:         op,
		Message:    fmt.Sprintf("Failed to %s: backend unreachable", op),
		Suggestion: "Check that the backend is running and api.base_url is correct",
		Cause:      cause,
	}
}

// DecodeFailed reports that the response to op could not be decoded.
func DecodeFailed(op string, cause error) *Error {
	return &Error{
		Code:       ErrDecode,
		Op:         op,
		Message:    fmt.Sprintf("Failed to %s: unexpected response body", op),
		Suggestion: "The backend may be a different version than this client expects",
		Cause:      cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns the message without cause and suggestion, for one-line
// status bars.
func (e *Error) Short() string {
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var wwErr *Error
	if errors.As(err, &wwErr) {
		return wwErr.Code == code
	}
	return false
}

// Summary returns a one-line description of err suitable for a status line.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var wwErr *Error
	if errors.As(err, &wwErr) {
		return wwErr.Short()
	}
	return strings.TrimSpace(strings.SplitN(err.Error(), "\n", 2)[0])
}
