package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches a FetchError caused by an HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrFetchFailed matches every other FetchError: network failure,
	// non-2xx status or an undecodable body.
	ErrFetchFailed = errors.New("fetch failed")
)

// ErrorKind distinguishes the two normalized failure kinds.
type ErrorKind int

const (
	KindFetchFailed ErrorKind = iota
	KindNotFound
)

func (k ErrorKind) String() string {
	if k == KindNotFound {
		return "not_found"
	}
	return "fetch_failed"
}

// FetchError is the single error type returned by the remote client.
type FetchError struct {
	Endpoint string
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	Kind   ErrorKind
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("failed to fetch data from %s (status %d): %v", e.Endpoint, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("failed to fetch data from %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("failed to fetch data from %s: HTTP error! status: %d", e.Endpoint, e.Status)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrFetchFailed:
		return e.Kind == KindFetchFailed
	}
	return false
}

func statusError(endpoint string, status int) *FetchError {
	kind := KindFetchFailed
	if status == 404 {
		kind = KindNotFound
	}
	return &FetchError{Endpoint: endpoint, Status: status, Kind: kind}
}
