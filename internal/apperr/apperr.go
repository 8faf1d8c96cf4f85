// Package apperr defines the error kinds services return and how they map
// onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

// Error carries a kind and a message that is safe to show to the caller.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or out-of-range input.
func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

// NotFound reports that the named entity does not exist.
func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

// Forbidden reports that the caller lacks rights over the resource.
func Forbidden(format string, args ...any) error { return newf(ErrForbidden, format, args...) }

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) error { return newf(ErrConflict, format, args...) }

// Unauthenticated reports a missing or invalid caller identity.
func Unauthenticated(format string, args ...any) error {
	return newf(ErrUnauthenticated, format, args...)
}

// HTTPStatus maps err onto a response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing text for err, or fallback when err is not
// one of the classified kinds.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		return err.Error()
	}
	return fallback
}
