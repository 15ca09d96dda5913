package api

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("backend unavailable")

// StatusError is an unexpected HTTP status from the backend.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}
