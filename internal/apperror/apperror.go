// Package apperror defines the error taxonomy shared by services and the
// RPC gateway. Every client-visible failure is one of a small set of codes;
// underlying causes stay wrapped and are only surfaced to logs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error category using the gateway's wire names.
type Code string

const (
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

// Issue points at a single input field.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Error is a client-safe application error. Message and Issues are rendered
// to callers; Err is the wrapped cause and never leaves the process.
type Error struct {
	Code    Code
	Message string
	Issues  []Issue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the code to a transport status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a BAD_REQUEST error carrying per-field issues.
func Validation(issues ...Issue) *Error {
	return &Error{Code: CodeBadRequest, Message: "invalid input", Issues: issues}
}

// Conflict reports a duplicate resource.
func Conflict(message string, issues ...Issue) *Error {
	return &Error{Code: CodeConflict, Message: message, Issues: issues}
}

// Unauthorized reports missing or bad credentials.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// From extracts an *Error from an error chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	appErr, ok := From(err)
	return ok && appErr.Code == code
}
