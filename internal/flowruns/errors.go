package flowruns

import (
	"errors"
	"net/http"
)

// Domain errors for flow run operations.
var (
	ErrNotFound      = errors.New("flow run not found")
	ErrTerminal      = errors.New("flow run is in a terminal state")
	ErrInvalidState  = errors.New("unknown flow run state")
	ErrInvalidFlowID = errors.New("flow id must be set")
	ErrInvalidID     = errors.New("invalid flow run id")
	ErrFlowNotFound  = errors.New("referenced flow does not exist")
)

// MapHTTPStatus maps flow run domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTerminal):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidFlowID),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrFlowNotFound):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
