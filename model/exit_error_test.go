package model

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestExitCodeFromError tests exit code selection and the logged cause.
func TestExitCodeFromError(t *testing.T) {
	boom := errors.New("boom")
	type TestCase struct {
		name          string
		err           error
		expectedCode  ExitCode
		expectedCause error
	}
	tests := []TestCase{
		{"exit error", NewExitError(UnknownError, boom), UnknownError, boom},
		{"wrapped exit error", pkgerrors.Wrap(NewExitError(UserCanceled, context.Canceled), "terminal"), UserCanceled, context.Canceled},
		{"exit error without cause", NewExitError(UserCanceled, nil), UserCanceled, nil},
		{"not found", pkgerrors.Wrap(ErrNotFound, "reddit"), NothingFound, nil},
		{"plain error", boom, UnknownError, boom},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, cause := ExitCodeFromError(tc.err)
			assert.Equal(t, tc.expectedCode, code)
			if tc.expectedCode == NothingFound {
				assert.ErrorIs(t, cause, ErrNotFound)
				return
			}
			assert.Equal(t, tc.expectedCause, cause)
		})
	}
}

// TestExitErrorMessage tests the message with and without a cause.
func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "Exit code 2", NewExitError(UserCanceled, nil).Error())
	assert.Equal(t, "Exit code 1: boom", NewExitError(UnknownError, errors.New("boom")).Error())
	assert.ErrorIs(t, NewExitError(UserCanceled, context.Canceled), context.Canceled)
}
