package artifacts

import (
	"errors"
	"net/http"
)

// Domain errors for artifact operations.
var (
	ErrNotFound     = errors.New("artifact not found")
	ErrDuplicate    = errors.New("artifact key already exists")
	ErrInvalidKey   = errors.New("artifact key must not be empty")
	ErrEmptyPayload = errors.New("artifact payload must not be empty")
	ErrInvalidID    = errors.New("invalid artifact id")
	ErrTooLarge     = errors.New("artifact payload exceeds the upload limit")
)

// MapHTTPStatus maps artifact domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidKey),
		errors.Is(err, ErrEmptyPayload),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
