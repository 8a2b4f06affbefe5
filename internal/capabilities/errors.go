package capabilities

import (
	"errors"
	"net/http"
)

// Domain errors for capability operations.
var (
	ErrNotFound       = errors.New("capability set not found")
	ErrDuplicate      = errors.New("capability set already exists for subject")
	ErrInvalidSubject = errors.New("subject must not be empty")
	ErrInvalidID      = errors.New("invalid capability set id")
)

// MapHTTPStatus maps capability domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidSubject), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
