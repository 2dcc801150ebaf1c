package backend

import (
	"fmt"
	"net/http"
)

// TransportError means the request never produced an HTTP response: the
// connection failed, the context expired or the body could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Detail is the server supplied
// description, if the body carried one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("request failed with status %d (%s)", e.StatusCode, text)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ProtocolError is a 2xx response whose body does not follow the chat
// contract, for example when the reply field is missing.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response from backend: %s: %v", e.Reason, e.Err)
	}
	return "invalid response from backend: " + e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }
