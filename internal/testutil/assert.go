package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/webship/webship/internal/errors"
)

// AssertAppErrorCode checks if the error has a specific error code.
func AssertAppErrorCode(t *testing.T, err error, expectedCode string, _ ...any) bool {
	t.Helper()
	code := apperrors.GetErrorCode(err)
	if code != expectedCode {
		return assert.Fail(t, "Error code mismatch", "Expected error code %q, got %q (%v)", expectedCode, code, err)
	}
	return true
}

// AssertAppErrorExitCode checks if the error carries a specific process exit code.
func AssertAppErrorExitCode(t *testing.T, err error, expectedExitCode int, _ ...any) bool {
	t.Helper()
	exitCode := apperrors.GetExitCode(err)
	if exitCode != expectedExitCode {
		return assert.Fail(t, "Exit code mismatch", "Expected exit code %d, got %d", expectedExitCode, exitCode)
	}
	return true
}
