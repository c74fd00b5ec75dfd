// Package apierr defines the error kinds returned to API clients and their HTTP status codes.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every client facing error unwraps to exactly one of them.
var (
	// ErrUnauthenticated means the request carries no valid principal.
	ErrUnauthenticated = errors.New("Authentication credentials were not provided.")
	// ErrForbidden means the principal lacks a capability or ownership.
	ErrForbidden = errors.New("You do not have permission to perform this action.")
	// ErrValidation means the input was rejected.
	ErrValidation = errors.New("Invalid input.")
	// ErrNotFound means the referenced resource does not exist.
	ErrNotFound = errors.New("Not found.")
	// ErrMethodNotAllowed means the action is not supported on the resource.
	ErrMethodNotAllowed = errors.New("Method not allowed.")
)

// Error is an error kind with a message for the client.
type Error struct {
	kind   error
	detail string
}

// New returns an error of the given kind carrying detail as its message.
func New(kind error, detail string) *Error {
	return &Error{kind: kind, detail: detail}
}

// Validation returns an ErrValidation with a formatted detail.
func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound with the given detail.
func NotFound(detail string) error {
	return New(ErrNotFound, detail)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.detail
}

// Unwrap returns the kind of e.
func (e *Error) Unwrap() error {
	return e.kind
}

// Status maps an error chain to an HTTP status code, 500 for unknown errors.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the client message for err.
// Unknown errors never leak their text.
func Detail(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "A server error occurred."
	}

	var e *Error
	if errors.As(err, &e) {
		return e.detail
	}

	return err.Error()
}
