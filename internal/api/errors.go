package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoSession is returned before any request is sent when the session
	// holds no bearer token.
	ErrNoSession = errors.New("no session token")
	// ErrUnauthorized is returned when the backend answers 401 or 403.  The
	// session has already been cleared when a caller sees it.
	ErrUnauthorized = errors.New("unauthorized or session expired")
	// ErrTransport wraps network and decoding failures.
	ErrTransport = errors.New("backend unreachable")
)

// StatusError is a non-2xx answer that is not a session failure.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// IsSessionError reports whether err means the user must sign in again.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrUnauthorized)
}

// Message returns the backend's message carried by err, or fallback when
// err carries none.
func Message(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
