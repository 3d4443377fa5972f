// Package apperr defines the error categories shared by the page client and
// the controllers that drive it.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAccessDenied signals that the backend asked the page to navigate away,
	// which happens when the session has expired.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidForecastData marks a forecast response that decoded but carried
	// values outside the known tables or the forecast window.
	ErrInvalidForecastData = errors.New("invalid forecast data")
)

// ValidationError is a local input error. It drives inline error text and is
// never shown in a dialog.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RequestError is an application error reported by the backend.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return "request failed: " + e.Message
}

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-ok HTTP status from a third-party endpoint that does not
// report a message body.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// MalformedResponseError is a response that arrived but could not be decoded or
// lacked the expected shape.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// FatalInvariantError reports backend state that contradicts the request, such
// as a delete count that differs from the number of names sent.
type FatalInvariantError struct {
	Message string
}

func (e *FatalInvariantError) Error() string {
	return "fatal invariant violation: " + e.Message
}

// InvalidForecastData builds a MalformedResponseError wrapping ErrInvalidForecastData.
func InvalidForecastData(format string, args ...any) error {
	return &MalformedResponseError{
		Err: fmt.Errorf("%w: %s", ErrInvalidForecastData, fmt.Sprintf(format, args...)),
	}
}

// IsCancelled reports whether err stems from a cancelled request. Cancelled
// requests are not errors from the user's point of view.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
