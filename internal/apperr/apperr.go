// Package apperr holds the error taxonomy shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds. Match with errors.Is.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrPersistence    = errors.New("persistence failure")
)

// Error carries a client-facing message, its kind and an optional cause.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Message is the text safe to show to the caller.
func (e *Error) Message() string { return e.msg }

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func Invalid(format string, args ...any) error {
	return &Error{kind: ErrInvalidRequest, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &Error{kind: ErrUnauthorized, msg: msg}
}

func Forbidden(msg string) error {
	return &Error{kind: ErrForbidden, msg: msg}
}

// Persistence wraps a storage failure. msg describes the operation, cause is kept for logs.
func Persistence(msg string, cause error) error {
	return &Error{kind: ErrPersistence, msg: msg, cause: cause}
}

// Message returns the client-facing part of err, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return err.Error()
}
