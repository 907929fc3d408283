package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Input and output errors
	ErrNoInput      ErrorCode = "NO_INPUT"
	ErrOutputExists ErrorCode = "OUTPUT_EXISTS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"

	// Import declaration errors
	ErrImportUnparseable ErrorCode = "IMPORT_UNPARSEABLE"
	ErrModuleNotFound    ErrorCode = "MODULE_NOT_FOUND"

	// Rendering errors
	ErrRenderFailed ErrorCode = "RENDER_FAILED"
)

// IsurusError represents a structured error with code and details
type IsurusError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *IsurusError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *IsurusError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *IsurusError) Is(target error) bool {
	var targetErr *IsurusError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new IsurusError with the given code and message
func New(code ErrorCode, message string) *IsurusError {
	return &IsurusError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new IsurusError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *IsurusError {
	return &IsurusError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an IsurusError
func Wrap(err error, code ErrorCode, message string) *IsurusError {
	if err == nil {
		return nil
	}
	return &IsurusError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *IsurusError {
	if err == nil {
		return nil
	}
	return &IsurusError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *IsurusError) WithDetail(key string, value interface{}) *IsurusError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var isurusErr *IsurusError
	if errors.As(err, &isurusErr) {
		return isurusErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an IsurusError
func GetErrorCode(err error) ErrorCode {
	var isurusErr *IsurusError
	if errors.As(err, &isurusErr) {
		return isurusErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an IsurusError
func GetErrorDetails(err error) map[string]interface{} {
	var isurusErr *IsurusError
	if errors.As(err, &isurusErr) {
		return isurusErr.Details
	}
	return nil
}
