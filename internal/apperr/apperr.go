// Package apperr defines the error kinds surfaced to callers. Concrete errors wrap one of
// the sentinels, so callers match with errors.Is and read the detail from Error().
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidQueryParameter = errors.New("invalid query parameter")
	ErrInvalidOperation      = errors.New("invalid operation")
	ErrNotFound              = errors.New("not found")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrConflict              = errors.New("conflict")
	ErrValidation            = errors.New("validation failed")
)

func InvalidQuery(format string, args ...any) error {
	return wrap(ErrInvalidQueryParameter, format, args...)
}

func InvalidOperation(format string, args ...any) error {
	return wrap(ErrInvalidOperation, format, args...)
}

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func PermissionDenied(format string, args ...any) error {
	return wrap(ErrPermissionDenied, format, args...)
}

func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error to the status code it is reported with.
// Errors that match no kind are infrastructure errors.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidQueryParameter),
		errors.Is(err, ErrInvalidOperation),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether err is one of the caller-facing kinds.
func IsClientError(err error) bool {
	return err != nil && HTTPStatus(err) != http.StatusInternalServerError
}
