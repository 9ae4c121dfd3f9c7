package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBaseURL is returned by New when no base URL is configured.
	ErrEmptyBaseURL = errors.New("gateway base URL is empty")
	// ErrInvalidBaseURL is returned by New when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("gateway base URL must be an absolute http or https URL")
)

const fallbackMessage = "Request failed"

// GatewayError is a non-2xx answer of the gateway.
type GatewayError struct {
	Endpoint string
	Status   int
	// Message is the server supplied error text, or a generic one.
	Message string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// TransportError means no usable response was obtained: dial, DNS, timeout,
// cancelled rate limit wait or an undecodable success body.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the user facing text of err: the server message of a
// GatewayError, or fallback for anything else.
func Message(err error, fallback string) string {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}

	return fallback
}
