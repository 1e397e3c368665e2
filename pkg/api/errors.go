package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// ErrUnauthorized is returned when the gateway rejects the bearer token
var ErrUnauthorized = errors.New("session expired")

// APIError is a request rejected by the gateway
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// TransportError is a failure to reach the gateway at all
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach gateway (%s %s): %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newAPIError extracts the detail field of an error body. Bodies that are not
// JSON, or carry no usable detail, fall back to a generic status message.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Detail:     fmt.Sprintf("HTTP status %d", status),
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		if detail != "" {
			apiErr.Detail = detail
		}
		return apiErr
	}

	// Request validation errors carry a list of {loc, msg}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			apiErr.Detail = strings.Join(msgs, "; ")
		}
	}

	return apiErr
}

// IsUnauthorized reports whether err is a rejected session
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// ErrorMessage returns the text shown to an operator for err
func ErrorMessage(err error) string {
	var apiErr *APIError
	var transportErr *TransportError
	var validationErr *models.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.As(err, &apiErr):
		return apiErr.Detail
	case errors.As(err, &transportErr):
		return "Cannot connect to the gateway"
	case errors.As(err, &validationErr):
		return validationErr.Message
	default:
		return err.Error()
	}
}
