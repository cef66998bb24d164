package client

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-2xx response. Message is the server's {error} text
// when the body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(op string, status int, body []byte) *APIError {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return &APIError{Status: status, Message: parsed.Error}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("%s failed with status %d", op, status)}
}
