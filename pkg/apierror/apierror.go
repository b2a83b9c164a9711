// Package apierror defines the error shape every fetch operation fails
// with: a numeric status and a message. Status 0 means no response
// reached the caller; any other value is the remote service's code.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where a failure happened.
type Kind string

const (
	KindTransport Kind = "transport"
	KindProtocol  Kind = "protocol"
	KindDecode    Kind = "decode"
)

// Error is the normalized fetch failure.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Transport wraps a failure where no response was received.
func Transport(err error) *Error {
	msg := "Network error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Status: 0, Message: msg, Kind: KindTransport, cause: err}
}

// Protocol builds an error for a non-success response. An empty message
// falls back to "HTTP <status>".
func Protocol(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	return &Error{Status: status, Message: message, Kind: KindProtocol}
}

// Decode wraps a response body that could not be read as the expected
// shape.
func Decode(status int, err error) *Error {
	return &Error{Status: status, Message: "Invalid JSON response", Kind: KindDecode, cause: err}
}

// From normalizes any error into *Error. Errors that already carry an
// *Error in their chain are returned as that value; everything else is
// treated as a transport failure. From(nil) is nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Transport(err)
}

// StatusOf returns the status carried by err, or 0.
func StatusOf(err error) int {
	if e := From(err); e != nil {
		return e.Status
	}
	return 0
}

// UserMessage turns err into operator-facing text.
func UserMessage(err error) string {
	e := From(err)
	if e == nil {
		return ""
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return "Session expired. Please log in again."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "This action conflicts with existing data."
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	}
	if e.Message == "" {
		return "An unexpected error occurred."
	}
	return e.Message
}
