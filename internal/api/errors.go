package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a request fails authentication even after
// one token refresh attempt. The session has already been torn down and the
// logout broadcast fired by the time callers observe it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError represents a non-2xx, non-401 response from the API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
}

// IsStatus reports whether err wraps an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
