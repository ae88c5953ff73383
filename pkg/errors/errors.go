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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Plan errors
	ErrPlanInvalid ErrorCode = "PLAN_INVALID"

	// Report errors
	ErrReportRead  ErrorCode = "REPORT_READ"
	ErrReportWrite ErrorCode = "REPORT_WRITE"

	// Snapshot errors
	ErrSnapshotCreate ErrorCode = "SNAPSHOT_CREATE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// DoctorError represents a structured error with code and details
type DoctorError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DoctorError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DoctorError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DoctorError) Is(target error) bool {
	var targetErr *DoctorError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DoctorError with the given code and message
func New(code ErrorCode, message string) *DoctorError {
	return &DoctorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DoctorError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DoctorError {
	return &DoctorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DoctorError
func Wrap(err error, code ErrorCode, message string) *DoctorError {
	if err == nil {
		return nil
	}
	return &DoctorError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DoctorError {
	if err == nil {
		return nil
	}
	return &DoctorError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DoctorError) WithDetail(key string, value interface{}) *DoctorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var doctorErr *DoctorError
	if errors.As(err, &doctorErr) {
		return doctorErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DoctorError
func GetErrorCode(err error) ErrorCode {
	var doctorErr *DoctorError
	if errors.As(err, &doctorErr) {
		return doctorErr.Code
	}
	return ErrUnknown
}
