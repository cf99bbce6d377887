package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors classifying API failures. Callers match with errors.Is.
var (
	// ErrInvalidCredentials is returned for a 401 on the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired is returned when a 401 could not be recovered by a
	// refresh-token exchange. The token store has been cleared.
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden is returned for a 403: the caller is authenticated but
	// not authorized. Never retried.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is the raw 401 classification before any refresh
	// handling has been applied.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork is returned when no response was received.
	ErrNetwork = errors.New("network error")

	// ErrServer is returned for 5xx responses and malformed response bodies.
	ErrServer = errors.New("server error")
)

// APIError carries structured failure metadata extracted from a response.
type APIError struct {
	Status    int
	Message   string
	RequestID string
	Err       error
}

// Error returns the human-readable message for the failure.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Unwrap exposes the sentinel classification for errors.Is.
func (e *APIError) Unwrap() error {
	return e.Err
}

const genericErrorMessage = "an unexpected error occurred"

// decodeError builds an *APIError from a non-2xx response. The message is
// extracted in priority order: server message field, server error field,
// raw string body, generic fallback.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get("X-Request-ID"),
		Err:       classifyStatus(resp.StatusCode),
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr.Message = extractMessage(body)

	return apiErr
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status >= 500:
		return ErrServer
	default:
		return nil
	}
}

func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return genericErrorMessage
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	// Raw string body, JSON-quoted or plain.
	var raw string
	if err := json.Unmarshal(body, &raw); err == nil && raw != "" {
		return raw
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return trimmed
	}

	return genericErrorMessage
}
