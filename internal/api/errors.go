package api

import (
	"context"
	"errors"
	"fmt"
)

// HTTPError is returned for any non-2xx response. Message carries the
// server envelope's message when one was present, so callers can show it
// to the user verbatim.
type HTTPError struct {
	Status  int
	Message string
	Path    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request to %s failed with status %d", e.Path, e.Status)
}

// ValidationError is returned when a 2xx response does not match the
// expected envelope or data shape. It is never retried.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.Path, e.Reason)
}

// IsNetwork reports whether err is a transport-level failure rather than
// a server-issued error. Primary content loads fall back to the sample
// catalog on network failures so the command stays usable offline.
// Cancellation is not a network failure: an interrupted request must
// abort, not degrade.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	var valErr *ValidationError
	return !errors.As(err, &httpErr) && !errors.As(err, &valErr)
}
