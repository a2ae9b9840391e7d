package model

import (
	"errors"
	"fmt"
)

// ExitError carries the process exit code up to main so deferred cleanup
// still runs before exiting.
type ExitError struct {
	Code ExitCode
	Err  error
}

func NewExitError(code ExitCode, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError picks the exit code for err and returns the cause worth
// logging, if any. A search that found nothing exits with NothingFound.
func ExitCodeFromError(err error) (ExitCode, error) {
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code, exitErr.Err
	case errors.Is(err, ErrNotFound):
		return NothingFound, err
	default:
		return UnknownError, err
	}
}
