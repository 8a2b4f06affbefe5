package flows

import (
	"errors"
	"net/http"
)

// Domain errors for flow operations.
var (
	ErrNotFound           = errors.New("flow not found")
	ErrDuplicate          = errors.New("flow name already registered")
	ErrInvalidName        = errors.New("flow name must be a slug of lowercase letters, digits, hyphens, and underscores")
	ErrInvalidRetryPolicy = errors.New("retries and retry delay must not be negative")
	ErrInvalidID          = errors.New("invalid flow id")
)

// MapHTTPStatus maps flow domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidRetryPolicy),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
