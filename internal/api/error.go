package api

import (
	"errors"
	"net/http"
)

// genericMessage is shown when the authority reports failure without an
// error payload.
const genericMessage = "request failed"

// APIError is a failure reported by the authority. Message carries the
// server's error string verbatim so the user sees exactly what the
// authority said.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is the authority saying the record does
// not exist (e.g. a group deleted from under a detail view).
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
