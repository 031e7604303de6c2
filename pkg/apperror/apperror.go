// Package apperror defines the application error taxonomy so handlers can
// map any error from the service layer to a single HTTP response.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type categorizes an application error.
type Type int

const (
	Internal Type = iota
	Validation
	Auth
	Forbidden
	NotFound
	Conflict
)

// Error carries a category, a client-safe message and an optional wrapped cause.
type Error struct {
	Type    Type
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error type to an HTTP status.
// Conflicts are reported as 400 rather than 409; clients treat duplicate
// registrations and duplicate invites as plain bad requests.
func (e *Error) StatusCode() int {
	switch e.Type {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(t Type, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

func NewValidation(message string) *Error     { return New(Validation, message, nil) }
func NewAuth(message string) *Error           { return New(Auth, message, nil) }
func NewForbidden(message string) *Error      { return New(Forbidden, message, nil) }
func NewNotFound(message string) *Error       { return New(NotFound, message, nil) }
func NewConflict(message string) *Error       { return New(Conflict, message, nil) }
func NewInternal(msg string, err error) *Error { return New(Internal, msg, err) }

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	if ae, ok := As(err); ok {
		return ae.Type == t
	}
	return false
}
