package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by errors.Is for 404 responses and for listings
// the service reports as missing.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the remote service
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is reports 404s as ErrNotFound
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// newAPIError prefers the server-provided message over a generic status text
func newAPIError(op string, status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &APIError{Op: op, Status: status, Message: msg}
}
