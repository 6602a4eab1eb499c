package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/asgsolar/luxclient/internal/domain"
)

// ErrNoRefreshToken is returned when a 401 cannot be recovered because
// neither the session nor the credential store holds a refresh token.
var ErrNoRefreshToken = errors.New("no refresh token available")

// APIError is a non-2xx response carrying the server's envelope
// message and any field-level validation errors, passed through
// unmodified for display.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []domain.FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (HTTP %d)", e.StatusCode)
}

// IsUnauthorized reports whether the error is a 401 APIError.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// apiErrorFrom builds an APIError from a non-success response body.
func apiErrorFrom(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var env domain.APIResponse[json.RawMessage]
	if err := json.Unmarshal(resp.Body, &env); err == nil {
		apiErr.Message = env.Message
		apiErr.Fields = env.Errors
	}
	return apiErr
}

// Decode unwraps the API envelope from a pipeline response. Non-2xx
// statuses and envelopes with success=false become APIErrors.
func Decode[T any](resp *Response) (T, error) {
	var zero T

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, apiErrorFrom(resp)
	}

	var env domain.APIResponse[T]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	return env.Data, nil
}
