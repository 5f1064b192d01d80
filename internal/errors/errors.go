package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInitialization indicates the identity provider failed to
	// construct or initialize. Fatal for auth features; callers should offer
	// a retry, not crash.
	ErrCodeInitialization ErrorCode = "initialization"
	// ErrCodeAuthInteraction indicates an interactive login/logout flow
	// failed or was cancelled. Recoverable; never mutates the session.
	ErrCodeAuthInteraction ErrorCode = "auth_interaction"
	// ErrCodeInteractionRequired is a control-flow signal: silent token
	// acquisition cannot proceed and an interactive flow is needed. Not a
	// user-visible error.
	ErrCodeInteractionRequired ErrorCode = "interaction_required"
	// ErrCodeGateway indicates a profile/role/menu fetch failed.
	ErrCodeGateway ErrorCode = "gateway"
	// ErrCodeTimeout indicates a gateway call exceeded its deadline.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Initialization creates a new Initialization error wrapping a cause.
func Initialization(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInitialization, Message: message, Cause: cause}
}

// AuthInteraction creates a new AuthInteraction error wrapping a cause.
func AuthInteraction(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeAuthInteraction, Message: message, Cause: cause}
}

// InteractionRequired creates the sentinel signalling that silent token
// acquisition must fall back to an interactive flow.
func InteractionRequired(cause error) *AppError {
	return &AppError{Code: ErrCodeInteractionRequired, Message: "interaction required", Cause: cause}
}

// Gateway creates a new Gateway error wrapping a cause.
func Gateway(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeGateway, Message: message, Cause: cause}
}

// Gatewayf creates a new Gateway error with a formatted message.
func Gatewayf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeGateway, Message: fmt.Sprintf(format, args...)}
}

// Timeout creates a new Timeout error with a formatted message.
func Timeout(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeTimeout, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new Validation error for a specific field.
func Validation(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Internal creates a new Internal error wrapping a cause.
func Internal(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Cause: cause}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsInteractionRequired reports whether err is the silent-acquisition
// fallback signal.
func IsInteractionRequired(err error) bool {
	return IsCode(err, ErrCodeInteractionRequired)
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool {
	return IsCode(err, ErrCodeTimeout)
}

// CodeOf extracts the ErrorCode from err, defaulting to ErrCodeInternal for
// plain errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}
