package obsws

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned for requests issued after Close and for
// waits that were still pending when the connection went away.
var ErrConnectionClosed = errors.New("connection closed")

// RequestError is returned when OBS answers a request with a non-ok status.
type RequestError struct {
	RequestType string // request-type of the rejected command
	Message     string // server-provided error text
	Raw         string // raw response message as received
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s rejected by server: %s", e.RequestType, e.Message)
}

// AuthError is returned when the authentication handshake fails.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}
