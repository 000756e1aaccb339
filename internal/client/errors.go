package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFoundOrInaccessible matches any 403 or 404 from the backend. The
// backend does not tell the two apart, so neither does the client.
var ErrNotFoundOrInaccessible = errors.New("not found or inaccessible")

// ErrUnauthorized matches a 401: the credential is missing, expired or revoked.
var ErrUnauthorized = errors.New("not authorized, please log in again")

// APIError is a backend rejection. Message is the backend's text, verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFoundOrInaccessible:
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusForbidden
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// ClientError reports whether the backend rejected the request itself (4xx)
// rather than failing to serve it.
func (e *APIError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// NetworkError wraps transport failures, timeouts and an open circuit.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// parseErrorBody extracts the human-readable message from an error response.
func parseErrorBody(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	} else {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
