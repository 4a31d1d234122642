package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("backend unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidResponse = errors.New("invalid server response")
)

// APIError is a non-2xx answer from the backend. Message and Err carry the
// envelope's message and error fields when the body had them.
type APIError struct {
	Status  int
	Message string
	Err     string
	Path    string
}

func (e *APIError) Error() string {
	text := e.Err
	if text == "" {
		text = e.Message
	}
	if text == "" {
		text = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, text)
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// UserMessage picks the text to show for a failed call: the envelope's error
// field, then its message, then fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Err != "" {
			return apiErr.Err
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}
