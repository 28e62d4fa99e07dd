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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Preflight errors
	ErrNotDeployed     ErrorCode = "NOT_DEPLOYED"
	ErrAgentDirMissing ErrorCode = "AGENT_DIR_MISSING"

	// Version errors
	ErrVersionSource ErrorCode = "VERSION_SOURCE"
	ErrVersionRead   ErrorCode = "VERSION_READ"
	ErrVersionWrite  ErrorCode = "VERSION_WRITE"

	// Backup errors
	ErrBackup           ErrorCode = "BACKUP"
	ErrBackupStale      ErrorCode = "BACKUP_STALE"
	ErrSnapshotConsumed ErrorCode = "SNAPSHOT_CONSUMED"
	ErrSnapshotCorrupt  ErrorCode = "SNAPSHOT_CORRUPT"

	// Update errors
	ErrSync     ErrorCode = "SYNC"
	ErrPreserve ErrorCode = "PRESERVE"

	// Verification errors
	ErrVerify          ErrorCode = "VERIFY"
	ErrVersionMismatch ErrorCode = "VERSION_MISMATCH"

	// Rollback errors
	ErrRollback ErrorCode = "ROLLBACK"
)

// TrinityError represents a structured error with code and details
type TrinityError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TrinityError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TrinityError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TrinityError) Is(target error) bool {
	var targetErr *TrinityError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TrinityError with the given code and message
func New(code ErrorCode, message string) *TrinityError {
	return &TrinityError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TrinityError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TrinityError {
	return &TrinityError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TrinityError
func Wrap(err error, code ErrorCode, message string) *TrinityError {
	if err == nil {
		return nil
	}
	return &TrinityError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TrinityError {
	if err == nil {
		return nil
	}
	return &TrinityError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TrinityError) WithDetail(key string, value interface{}) *TrinityError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether any TrinityError in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &TrinityError{Code: code})
}

// GetErrorCode returns the code of the outermost TrinityError in the chain,
// or ErrUnknown if there is none.
func GetErrorCode(err error) ErrorCode {
	var trinityErr *TrinityError
	if errors.As(err, &trinityErr) {
		return trinityErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TrinityError
func GetErrorDetails(err error) map[string]interface{} {
	var trinityErr *TrinityError
	if errors.As(err, &trinityErr) {
		return trinityErr.Details
	}
	return nil
}

// DetailString returns a string detail from the outermost TrinityError,
// or "" when absent.
func DetailString(err error, key string) string {
	details := GetErrorDetails(err)
	if details == nil {
		return ""
	}
	s, _ := details[key].(string)
	return s
}
