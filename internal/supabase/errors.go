package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for Supabase operations.
var (
	ErrMissingURL   = errors.New("supabase url not configured")
	ErrUnauthorized = errors.New("supabase rejected the service key")
)

// APIError is a non-2xx response from Supabase.
type APIError struct {
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase %s: HTTP %d: %s", e.Path, e.Status, e.Message)
}

// Unwrap maps authentication failures to ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// errorBody covers both the Auth ("msg", "error_description") and the
// PostgREST ("message") error shapes.
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func newAPIError(path string, status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		for _, candidate := range []string{eb.Message, eb.Msg, eb.ErrorDescription, eb.Error} {
			if candidate != "" {
				msg = candidate
				break
			}
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Path: path, Status: status, Message: msg}
}
