package api

import "fmt"

// Error is an API rejection: the server answered with a non-2xx status.
// Detail carries the server-provided message when one was present in the
// response body, otherwise a generic fallback.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
