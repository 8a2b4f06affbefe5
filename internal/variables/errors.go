package variables

import (
	"errors"
	"net/http"
)

// Domain errors for variable operations.
var (
	ErrNotFound    = errors.New("variable not found")
	ErrDuplicate   = errors.New("variable name already exists")
	ErrInvalidName = errors.New("variable name must not be empty")
	ErrInvalidID   = errors.New("invalid variable id")
)

// MapHTTPStatus maps variable domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
