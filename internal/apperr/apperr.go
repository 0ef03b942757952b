// Package apperr defines the error taxonomy shared by handlers and services.
// Every failure that reaches a handler carries a Kind so the response status
// and message can be chosen in one place instead of stringifying everything.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthorized
	NotFound
	Conflict
	ServiceUnavailable
	SchemaViolation
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case ServiceUnavailable:
		return "service_unavailable"
	case SchemaViolation:
		return "schema_violation"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string // safe to show to the client
	Err     error  // underlying cause, logged but never returned
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the Kind of err, or Internal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-safe message of err, or a generic fallback.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred"
}

// HTTPStatus maps a Kind to the status code handlers respond with. Schema
// violations from the AI oracle are reported as a bad upstream response.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case ServiceUnavailable:
		return http.StatusServiceUnavailable
	case SchemaViolation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
