package domain

import (
	"errors"
	"fmt"
)

// TransportError represents a request that never produced a backend
// response: connection failures, cancelled contexts, timeouts.
type TransportError struct {
	Op      string // operation that failed, e.g. "list deposits"
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return e.Op + ": timed out: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx backend response. Message carries the backend's
// payload message when one was extractable.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend error (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: backend error (status %d)", e.Op, e.StatusCode)
}

// PreconditionError is a client-side refusal: the operation's local
// precondition did not hold, so no request was issued.
type PreconditionError struct {
	Resource string
	ID       string
	Reason   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, e.Reason)
}

var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// and none is active.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrResolutionInFlight is returned when a record already has an
	// outstanding resolution request.
	ErrResolutionInFlight = errors.New("resolution already in flight")

	// ErrPageRequestInFlight is returned when a pager is asked for the next
	// page while one is still loading.
	ErrPageRequestInFlight = errors.New("page request already in flight")
)

// IsTimeout reports whether err is a transport failure caused by the
// bounded request timeout.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// IsBackendError reports whether the backend answered with a failure.
func IsBackendError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// OperatorMessage converts any console error into the text shown to the
// operator: the backend's own message verbatim when available, otherwise a
// generic per-category fallback.
func OperatorMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae.Message
		}
		return "The server rejected the request. Please try again."
	}
	if IsTimeout(err) {
		return "The request timed out. Please try again."
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "Could not reach the server. Please check the connection."
	}
	return err.Error()
}
