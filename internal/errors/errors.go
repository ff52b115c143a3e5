package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// AuthenticationFailed indicates the presented credential was absent or wrong
	AuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	// UnknownOperation indicates the requested operation is not registered
	UnknownOperation ErrorCode = "UNKNOWN_OPERATION"
	// MissingParameter indicates a required parameter was not supplied
	MissingParameter ErrorCode = "MISSING_PARAMETER"
	// InvalidParameter indicates a parameter could not be read as text
	InvalidParameter ErrorCode = "INVALID_PARAMETER"
	// RateLimited indicates the caller exceeded its request budget
	RateLimited ErrorCode = "RATE_LIMITED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Error is the error type returned across package boundaries.
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new Error. Suggested fixes are filled in from ErrorActions.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// NewAuthenticationError reports a rejected credential.
func NewAuthenticationError(reason string) *Error {
	return New(AuthenticationFailed, reason, nil)
}

// NewUnknownOperationError reports a call to an operation that is not registered.
func NewUnknownOperationError(name string) *Error {
	return New(UnknownOperation, fmt.Sprintf("unknown operation: %s", name), nil).
		WithDetails(map[string]string{"operation": name})
}

// NewMissingParameterError reports a required parameter that was not supplied.
func NewMissingParameterError(operation, param string) *Error {
	return New(MissingParameter, fmt.Sprintf("missing required parameter %q for %s", param, operation), nil).
		WithDetails(map[string]string{"operation": operation, "parameter": param})
}

// NewInvalidParameterError reports a parameter whose value is not a string.
func NewInvalidParameterError(param, reason string) *Error {
	return New(InvalidParameter, fmt.Sprintf("invalid parameter %q: %s", param, reason), nil).
		WithDetails(map[string]string{"parameter": param})
}

// NewRateLimitedError reports a throttled caller.
func NewRateLimitedError(retryAfter int) *Error {
	return New(RateLimited, "rate limit exceeded", nil).
		WithDetails(map[string]int{"retryAfter": retryAfter})
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, cause error) *Error {
	return New(InternalError, message, cause)
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	AuthenticationFailed: {
		{
			Type:        RunCommand,
			Command:     "lifesuite config show",
			Description: "Check the configured auth token",
		},
	},
	UnknownOperation: {
		{
			Type:        RunCommand,
			Command:     "lifesuite tools",
			Description: "List the available operations",
		},
	},
	MissingParameter: {
		{
			Type:        RunCommand,
			Command:     "lifesuite tools ${operation}",
			Description: "Show the parameters of the operation",
		},
	},
	RateLimited: {
		{
			Type:        RunCommand,
			Command:     "sleep ${retry_after}",
			Description: "Retry after the indicated delay",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
