package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFileSelected signals an upload submit without a selected file.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrEmptyQuery signals a search submit with a blank query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrBusy signals a submit while the widget already has a call in flight.
	ErrBusy = errors.New("request already in flight")

	// ErrServerFailure signals a non-2xx backend response.
	ErrServerFailure = errors.New("server failure")
	// ErrTransport signals a failure before a usable response was obtained.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse signals a 2xx response without the expected fields.
	ErrMalformedResponse = errors.New("malformed response")
)

// ServerError wraps ErrServerFailure with the HTTP status and the
// server-provided detail, if any.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d", ErrServerFailure.Error(), e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrServerFailure.Error(), e.StatusCode, e.Detail)
}

func (e *ServerError) Unwrap() error { return ErrServerFailure }

// NewServerError creates a server failure error.
func NewServerError(statusCode int, detail string) error {
	return &ServerError{StatusCode: statusCode, Detail: detail}
}

// TransportError wraps ErrTransport. Error() returns the underlying error
// text so it can be shown to the user as-is.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ErrTransport.Error()
	}
	return e.Err.Error()
}

// Unwrap exposes both the sentinel and the cause.
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// NewTransportError creates a transport failure error for the given operation.
func NewTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// ResponseShapeError wraps ErrMalformedResponse with what was missing.
type ResponseShapeError struct {
	Endpoint string
	Reason   string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("%s from %s: %s", ErrMalformedResponse.Error(), e.Endpoint, e.Reason)
}

func (e *ResponseShapeError) Unwrap() error { return ErrMalformedResponse }

// NewResponseShapeError creates a malformed response error.
func NewResponseShapeError(endpoint, reason string) error {
	return &ResponseShapeError{Endpoint: endpoint, Reason: reason}
}
