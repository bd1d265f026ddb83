// Package errors provides structured error handling for the application.
// Every action-level failure is mapped onto one of these codes before it
// crosses the HTTP boundary.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"

	// Server / upstream errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeModelOutputInvalid   ErrorCode = "MODEL_OUTPUT_INVALID"
)

// AppError represents an application error with a user-presentable message.
// Cause and metadata stay server-side; only Code and Message cross the wire.
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case CodeExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "User not authenticated"
	}
	return New(CodeUnauthorized, message)
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return New(CodeBadRequest, message)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return New(CodeValidationFailed, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return New(CodeNotFound, message)
}

// NewQuotaExceededError creates a quota-denied error with the limiter's
// tier-aware message.
func NewQuotaExceededError(message string) *AppError {
	return New(CodeQuotaExceeded, message)
}

// NewForbiddenError creates a policy-denied error (bot/WAF style denials,
// as opposed to rate-limit exhaustion).
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "Request denied"
	}
	return New(CodeForbidden, message)
}

// NewExternalServiceError creates an upstream-unavailable error
func NewExternalServiceError(message string, cause error) *AppError {
	return New(CodeExternalServiceError, message).WithCause(cause)
}

// NewModelOutputError creates a malformed-model-output error
func NewModelOutputError(message string, cause error) *AppError {
	return New(CodeModelOutputInvalid, message).WithCause(cause)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return New(CodeInternal, message)
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
