package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a stable, client-facing error code
type ErrorCode string

const (
	ErrCodeEndpointNotFound  ErrorCode = "endpoint_not_found"
	ErrCodeInvalidArgument   ErrorCode = "invalid_argument"
	ErrCodeUnauthorized      ErrorCode = "unauthorized"
	ErrCodeNotFound          ErrorCode = "not_found"
	ErrCodeAlreadyExists     ErrorCode = "already_exists"
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"
	ErrCodeInternal          ErrorCode = "internal_server_error"
)

// Coder is implemented by errors that carry their own error code.
// Errors that do not implement it are treated as internal faults.
type Coder interface {
	error
	ErrorCode() ErrorCode
}

// Error represents a structured error with code, message, and optional cause
type Error struct {
	Code    ErrorCode // Unique error code
	Message string    // Client-safe message, used as the response description
	Err     error     // Wrapped underlying error, never sent to clients
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode implements Coder
func (e *Error) ErrorCode() ErrorCode {
	return e.Code
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *Error) HTTPStatusCode() int {
	return MapErrorCodeToHTTPStatus(e.Code)
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error.
// Returns ErrCodeInternal if the error carries no code.
func GetCode(err error) ErrorCode {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ErrCodeInternal
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeEndpointNotFound, ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NotFound creates a "not found" error
func NotFound(resourceType string) *Error {
	return Newf(ErrCodeNotFound, "%s not found", resourceType)
}

// AlreadyExists creates an "already exists" error
func AlreadyExists(resourceType string) *Error {
	return Newf(ErrCodeAlreadyExists, "%s already exists", resourceType)
}

// InvalidArgument creates an "invalid argument" error
func InvalidArgument(message string) *Error {
	return New(ErrCodeInvalidArgument, message)
}

// Unauthorized creates an "unauthorized" error
func Unauthorized(message string) *Error {
	return New(ErrCodeUnauthorized, message)
}

// InternalWrap wraps an internal error
func InternalWrap(err error, message string) *Error {
	return Wrap(err, ErrCodeInternal, message)
}
