// Package errors provides error types and handling for webship.
// It includes an application error type carrying a stable error code and the
// process exit code the CLI terminates with.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application error with an associated exit code.
type AppError struct {
	// Code is an error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// ExitCode is the process exit code the CLI returns for this error
	ExitCode int
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	// Configuration error codes.
	ErrCodeConfigMissing = "CONFIG_MISSING"
	ErrCodeConfigInvalid = "CONFIG_INVALID"

	// Process error codes.
	ErrCodeProcessStartFailed = "PROCESS_START_FAILED"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeBuildFailed        = "BUILD_FAILED"
	ErrCodePublishFailed      = "PUBLISH_FAILED"

	// Cloud API error codes.
	ErrCodeDomainNotFound       = "DOMAIN_NOT_FOUND"
	ErrCodeAPIQueryFailed       = "API_QUERY_FAILED"
	ErrCodeStackOperationFailed = "STACK_OPERATION_FAILED"

	// Lifecycle error codes.
	ErrCodeNotFound = "NOT_FOUND"
)

// Exit codes returned by the CLI.
const (
	ExitCodeGeneric = 1
	ExitCodeConfig  = 2
	ExitCodeProcess = 3
	ExitCodeCloud   = 4
	ExitCodeTimeout = 124
)

// New creates an AppError with the given code, exit code, message and cause.
func New(code string, exitCode int, message string, cause error) *AppError {
	if exitCode <= 0 {
		panic(fmt.Sprintf("errors.New called with non-failure exit code: %d", exitCode))
	}
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: exitCode,
		Cause:    cause,
	}
}

// Convenience constructors for common errors

// ErrConfigMissing creates an error for a required configuration key that is absent.
func ErrConfigMissing(key string) *AppError {
	return New(ErrCodeConfigMissing, ExitCodeConfig,
		fmt.Sprintf("Could not find '%s' in custom variables", key), nil)
}

// ErrConfigInvalid creates an error for configuration that failed validation.
func ErrConfigInvalid(message string, cause error) *AppError {
	return New(ErrCodeConfigInvalid, ExitCodeConfig, message, cause)
}

// ErrProcessStartFailed creates an error for a child process that could not be launched.
func ErrProcessStartFailed(command string, cause error) *AppError {
	return New(ErrCodeProcessStartFailed, ExitCodeProcess,
		fmt.Sprintf("failed to start %s", command), cause)
}

// ErrTimeout creates an error for an operation cancelled by its deadline.
func ErrTimeout(message string, cause error) *AppError {
	return New(ErrCodeTimeout, ExitCodeTimeout, message, cause)
}

// ErrBuildFailed creates a build failure error.
func ErrBuildFailed(cause error) *AppError {
	return New(ErrCodeBuildFailed, ExitCodeProcess, "Unable to build webapp", cause)
}

// ErrPublishFailed creates a publish failure error.
func ErrPublishFailed(cause error) *AppError {
	return New(ErrCodePublishFailed, ExitCodeProcess, "Failed syncing to the S3 bucket", cause)
}

// ErrDomainNotFound creates an error for a missing or empty distribution output.
func ErrDomainNotFound(cause error) *AppError {
	return New(ErrCodeDomainNotFound, ExitCodeCloud, "Could not extract Web App Domain", cause)
}

// ErrAPIQueryFailed creates an error for a failed cloud API query.
func ErrAPIQueryFailed(message string, cause error) *AppError {
	return New(ErrCodeAPIQueryFailed, ExitCodeCloud, message, cause)
}

// ErrStackOperationFailed creates an error for a failed stack create or update.
func ErrStackOperationFailed(message string, cause error) *AppError {
	return New(ErrCodeStackOperationFailed, ExitCodeCloud, message, cause)
}

// ErrNotFound creates a not found error.
func ErrNotFound(message string, cause error) *AppError {
	return New(ErrCodeNotFound, ExitCodeGeneric, message, cause)
}

// GetExitCode extracts the process exit code from an error.
// Returns 0 for nil and ExitCodeGeneric if the error is not an AppError.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitCodeGeneric
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorDetails extracts detailed error information including the underlying cause.
// Returns the underlying error message if available, otherwise returns the main error message.
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
