package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is wrapped by every *Error produced from a 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// Error is returned for every failed backend call.  Message is the
// backend's "message" field, or the caller's fallback when the backend did
// not provide one or the request never reached it.  Status is zero for
// transport failures.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the call failed before a response was received.
func (e *Error) Transport() bool { return e.Status == 0 }

func (e *Error) GoString() string {
	return fmt.Sprintf("api.Error{Status:%d, Message:%q}", e.Status, e.Message)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
