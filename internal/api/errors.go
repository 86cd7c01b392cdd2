package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx backend response. Message carries whichever of
// the backend's message/error/detail fields was present, so handlers
// can surface it directly.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %s: %s", http.StatusText(e.StatusCode), e.Message)
}

// IsAuthError reports whether the failure was an auth rejection. A
// request sent with an empty or stale token after a failed refresh
// ends up here.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
		Detail  string `json:"detail"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Err != "":
			msg = payload.Err
		case payload.Detail != "":
			msg = payload.Detail
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}
