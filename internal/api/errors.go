package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the responses callers branch on. Transport failures are
// not mapped; they surface as wrapped errors from the HTTP round trip.
var (
	ErrNotFound     = errors.New("item not found")
	ErrUnauthorized = errors.New("session unauthorized")
	ErrConflict     = errors.New("reaction write conflict")
)

// StatusError reports a non-2xx API response. It unwraps to one of the
// sentinel errors above when the status code has a defined meaning.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}
