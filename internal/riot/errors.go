package riot

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the requested resource does not exist (HTTP 404).
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// APIError is a non-404 error response from the Riot API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("riot API error (status %d): %s", e.StatusCode, e.Message)
}
