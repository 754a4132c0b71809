package blum

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAuthenticationRejected is returned when the API answers 401
	ErrAuthenticationRejected = errors.New("invalid token")
	// ErrMalformedResponse is returned when a response body lacks an expected field
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmptyIdentifier is returned when starting a game yields no game id
	ErrEmptyIdentifier = errors.New("empty game identifier")
)

// StatusError is any non-200 answer other than 401
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP status %d", e.Op, e.Code)
}

// TransportError wraps a failure to reach the API at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Describe returns a short operator-facing name for an error from this package
func Describe(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError

	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthenticationRejected):
		return "authentication rejected"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("unexpected status %d", statusErr.Code)
	case errors.Is(err, ErrEmptyIdentifier):
		return "empty game identifier"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed response"
	case errors.As(err, &transportErr):
		return "transport error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
