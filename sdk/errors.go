package codepad

import "fmt"

// APIError is returned when the codepad API responds with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("codepad: HTTP %d: %s", e.StatusCode, e.Message)
}
