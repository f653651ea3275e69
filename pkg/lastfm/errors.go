package lastfm

import (
	"errors"
	"fmt"
)

// APIError represents a structured error response from the Last.fm API,
// carrying the service's numeric error code and message.
type APIError struct {
	Code    int    // Last.fm error code
	Message string // Error message from Last.fm
}

// Error returns the error message.
func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is checks if the target error is a Last.fm API error with the same code.
//
// This allows errors.Is() to work with *APIError values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// PendingAuthorization returns true if the error means the user has not yet
// approved the auth token in the browser. Callers polling auth.getSession
// should treat this as "wait and retry", not as a failure.
func (e *APIError) PendingAuthorization() bool {
	return e.Code == ErrCodeUnauthorizedToken
}

// TransportError represents an HTTP-layer failure: either the request never
// produced a response (Err set, StatusCode zero) or the response was not a
// usable API response (status and raw body preserved for diagnostics).
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Error returns the error message.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lastfm: request failed: %v", e.Err)
	}
	return fmt.Sprintf("lastfm: http error %d", e.StatusCode)
}

// Unwrap returns the underlying network error, if any.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates a response parsed as JSON but lacked a field
// the protocol requires. It implies a client bug or a service change, not a
// user-correctable condition.
type MissingFieldError struct {
	Field string
}

// Error returns the error message.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("lastfm: response missing field %q", e.Field)
}

// MalformedResponseError indicates a response body that could not be decoded
// into the expected shape at all.
type MalformedResponseError struct {
	Err error
}

// Error returns the error message.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("lastfm: malformed response: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Common Last.fm error codes.
const (
	ErrCodeInvalidService       = 2
	ErrCodeInvalidMethod        = 3
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidFormat        = 5
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidResourceSpec  = 7
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeSubscribersOnly      = 12
	ErrCodeInvalidSignature     = 13
	ErrCodeUnauthorizedToken    = 14
	ErrCodeExpiredToken         = 15
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// IsPendingAuthorization reports whether err is the "token not yet approved"
// API error (code 14).
func IsPendingAuthorization(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.PendingAuthorization()
}
