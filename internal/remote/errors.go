package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// TransportError is a request that never produced an HTTP response: network
// failure, cancellation or deadline.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// StatusError is a non-2xx response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Endpoint, e.Code, e.Body)
}

// DecodeError is a response whose body could not be read or is not the
// expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AskError is a failed /ask call. Its message is the server's response body.
type AskError struct {
	Message string
}

func (e *AskError) Error() string {
	return e.Message
}

// InvalidAPIKey reports whether the assistant failed because the server's AI
// key is missing or rejected.
func (e *AskError) InvalidAPIKey() bool {
	return strings.Contains(e.Message, "API key not valid") || strings.Contains(e.Message, "API_KEY_INVALID")
}
