package gemini

import (
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Error represents an API error.
type Error struct {
	// Code is the HTTP status code.
	Code int `json:"code"`

	// Status is the canonical status string, e.g. "RESOURCE_EXHAUSTED".
	Status string `json:"status"`

	// Message is the error message.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("gemini: %s (code=%d, status=%s)", e.Message, e.Code, e.Status)
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.Code == 429 || e.Status == "RESOURCE_EXHAUSTED"
}

// IsInvalidAPIKey returns true if this is an authentication error.
func (e *Error) IsInvalidAPIKey() bool {
	return e.Code == 401 || e.Code == 403
}

// IsInvalidRequest returns true if the request itself was rejected.
func (e *Error) IsInvalidRequest() bool {
	return e.Code == 400 || e.Code == 404
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.Code >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error.
//
//	if e, ok := gemini.AsError(err); ok && e.IsRateLimit() {
//	    // back off
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// wrapErr normalizes SDK errors into *Error where possible.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", op, &Error{
			Code:    apiErr.Code,
			Status:  apiErr.Status,
			Message: apiErr.Message,
		})
	}
	return fmt.Errorf("%s: %w", op, err)
}
