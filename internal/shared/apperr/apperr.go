// Package apperr defines the error kinds shared by every feature and their HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error at a component boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindTooManyRequests
)

var kindNames = map[Kind]string{
	KindInternal:        "internal",
	KindBadRequest:      "bad_request",
	KindUnauthorized:    "unauthorized",
	KindForbidden:       "forbidden",
	KindNotFound:        "not_found",
	KindConflict:        "conflict",
	KindInvalidState:    "invalid_state",
	KindTooManyRequests: "too_many_requests",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Status returns the HTTP status code for the kind.
// InvalidState is a server-side consistency problem and maps to 500.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error tagged with a Kind and a client-facing message.
type Error struct {
	Kind    Kind
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

// New creates an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error with a cause. The cause is kept for logging and errors.Is.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error      { return New(KindBadRequest, message) }
func Unauthorized(message string) *Error    { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func TooManyRequests(message string) *Error { return New(KindTooManyRequests, message) }

// Internal wraps err as a server error with context.
func Internal(message string, err error) *Error { return Wrap(KindInternal, message, err) }

// InvalidState wraps err as a consistency violation.
func InvalidState(message string) *Error { return New(KindInvalidState, message) }

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the message that may be shown to a client.
// Server-side kinds never expose their cause.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	if e.Kind.Status() >= http.StatusInternalServerError {
		return "internal server error"
	}
	return e.Message
}
