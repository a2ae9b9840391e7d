package model

import (
	"errors"
	"fmt"
)

type ExitCode int

func (e ExitCode) String() string {
	return fmt.Sprintf("Exit code %d", e)
}

func (e ExitCode) Error() string {
	return e.String()
}

const (
	Unset ExitCode = -1
)
const (
	NoError ExitCode = iota
	UnknownError
	UserCanceled
	NothingFound
)

var (
	// ErrNotFound means a category search yielded nothing, fallback included.
	ErrNotFound = errors.New("no styles found")
	// ErrCacheCorrupt marks a cache entry that could not be decoded.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
	// ErrDuplicateLookup marks a failed installed-style lookup.
	ErrDuplicateLookup = errors.New("installed style lookup failed")
)

// NetworkError is a failed request to the remote catalog.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DuplicateLookupError is a failed installed-style lookup. It matches
// ErrDuplicateLookup and unwraps to the lookup's own error.
type DuplicateLookupError struct {
	Err error
}

func (e *DuplicateLookupError) Error() string {
	return ErrDuplicateLookup.Error() + ": " + e.Err.Error()
}

func (e *DuplicateLookupError) Unwrap() error {
	return e.Err
}

func (e *DuplicateLookupError) Is(target error) bool {
	return target == ErrDuplicateLookup
}

// IsNetworkError reports whether err is, or wraps, a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// UserMessage is the status-area text shown for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) {
		return "No styles found for this site"
	}
	return "An error occurred\n" + err.Error()
}
