package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized signals that the server rejected the bearer token.
// Matchable with errors.Is against any *Error carrying HTTP 401.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx response from the service. Message holds the
// user-facing text from the response body (the "error" field when present,
// otherwise "message"); it may be empty.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Is makes errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// UserMessage extracts the text to show a user for a failed operation.
// Server-provided messages win; API errors without one fall back to
// fallback; anything else is a transport failure and gets offline.
func UserMessage(err error, fallback, offline string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return offline
}
