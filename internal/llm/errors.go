package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the endpoint replied 2xx but the body
// carried no usable completion choice.
var ErrEmptyCompletion = errors.New("completion reply missing content")

// TransportError wraps a network-level failure reaching the completion
// endpoint (timeout, DNS, connection reset).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestFailedError means the endpoint was reachable but returned an error
// status. Message carries the upstream error message when the endpoint
// supplied one.
type RequestFailedError struct {
	StatusCode int
	Message    string
}

func (e *RequestFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("completion request failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion request failed (status %d)", e.StatusCode)
}
