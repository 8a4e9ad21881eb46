package webhook

import (
	"errors"
	"fmt"
)

var (
	// ErrBadResponse is wrapped by every error caused by what Discord sent back.
	ErrBadResponse = errors.New("bad response")
	// ErrNotJSON means a 2xx answer that was not JSON; usually a wrong URL.
	ErrNotJSON = fmt.Errorf("%w: response is not json, is your webhook correct?", ErrBadResponse)

	ErrEmptyContent   = errors.New("message content is empty")
	ErrContentTooLong = fmt.Errorf("message content exceeds %d characters", MaxContentLength)
)

// APIError is a non-2xx answer from the webhook endpoint.
type APIError struct {
	StatusCode int
	// Code is Discord's JSON error code, zero when the body was not JSON.
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("HTTP %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return ErrBadResponse }
