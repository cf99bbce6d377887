package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the wrapper several POS endpoints use around their payload.
// Other endpoints return the payload bare; decodePayload accepts both and
// fails closed on anything else.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// decodePayload normalizes a response body into out. Wrapped bodies
// ({success, data, ...}) are unwrapped; bare arrays and objects are decoded
// directly. An unexpected shape yields an *APIError wrapping ErrServer.
func decodePayload(body []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &APIError{Message: "empty response body", Err: ErrServer}
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return &APIError{Message: fmt.Sprintf("malformed response body: %v", err), Err: ErrServer}
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return &APIError{Message: fmt.Sprintf("malformed response body: %v", err), Err: ErrServer}
	}

	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = genericErrorMessage
		}
		return &APIError{Message: msg, Err: ErrServer}
	}

	payload := trimmed
	if len(env.Data) > 0 {
		payload = env.Data
	} else if env.Success != nil {
		// Enveloped response with no payload where one was expected.
		return &APIError{Message: "response envelope missing data", Err: ErrServer}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &APIError{Message: fmt.Sprintf("unexpected response shape: %v", err), Err: ErrServer}
	}
	return nil
}
