package reporting

import (
	"errors"
	"fmt"
)

// ErrUpstream matches every failure raised while fetching a report.
var ErrUpstream = errors.New("reporting: upstream failure")

// NetworkError reports a request that could not complete.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("reporting: request %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets callers match all fetch failures through ErrUpstream.
func (e *NetworkError) Is(target error) bool { return target == ErrUpstream }

// StatusError reports a response with a status outside 2xx.
type StatusError struct {
	Status   int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reporting: %s responded %d", e.Endpoint, e.Status)
}

func (e *StatusError) Is(target error) bool { return target == ErrUpstream }

// ShapeError reports a body that is not the JSON array the endpoint promises.
type ShapeError struct {
	Endpoint string
	Reason   string
}

func (e *ShapeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("reporting: unexpected payload from %s", e.Endpoint)
	}
	return fmt.Sprintf("reporting: unexpected payload from %s: %s", e.Endpoint, e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrUpstream }
