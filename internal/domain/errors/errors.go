// Package errors defines the tagged error kinds returned by the account core.
// The delivery layer maps each Kind to a transport status; nothing above the
// domain inspects error strings.
package errors

import (
	"userhub/internal/errors"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks malformed input supplied by the client.
	KindValidation Kind = iota + 1
	// KindConflict marks a uniqueness violation on username or email.
	KindConflict
	// KindAuth marks bad credentials or a missing, malformed or expired token.
	KindAuth
	// KindNotFound marks a referenced account that no longer exists.
	KindNotFound
	// KindStore marks a failure of the underlying persistence layer.
	KindStore
	// KindInternal marks any other unexpected runtime failure.
	KindInternal
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Error classification
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message, details string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// Kind returns the error classification
func (e *BaseError) Kind() Kind {
	return e.kind
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Predefined error types
var (
	ErrValidationFailed = NewBaseError(
		KindValidation,
		"VALIDATION_FAILED",
		"Invalid input data",
		"",
	)

	ErrAccountConflict = NewBaseError(
		KindConflict,
		"ACCOUNT_ALREADY_EXISTS",
		"Username or email already exists",
		"",
	)

	// Authentication-related errors. The credential failure is deliberately
	// identical for unknown usernames and wrong passwords.
	ErrInvalidCredentials = NewBaseError(
		KindAuth,
		"INVALID_CREDENTIALS",
		"Invalid username or password",
		"",
	)

	ErrMissingToken = NewBaseError(
		KindAuth,
		"MISSING_TOKEN",
		"Authorization token is missing",
		"",
	)

	ErrInvalidToken = NewBaseError(
		KindAuth,
		"INVALID_TOKEN",
		"Invalid or expired token",
		"",
	)

	ErrAccountNotFound = NewBaseError(
		KindNotFound,
		"ACCOUNT_NOT_FOUND",
		"Account not found",
		"",
	)

	// Covers both a wrong current password and an account that vanished.
	ErrPasswordChangeFailed = NewBaseError(
		KindValidation,
		"PASSWORD_CHANGE_FAILED",
		"Password change failed",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		KindInternal,
		"PASSWORD_HASH_FAILED",
		"Password processing error",
		"",
	)

	ErrTokenIssueFailed = NewBaseError(
		KindInternal,
		"TOKEN_ISSUE_FAILED",
		"Could not issue session token",
		"",
	)

	ErrInternalError = NewBaseError(
		KindInternal,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// ValidationError reports the specific input rule a request violated.
// errors.Is(err, ErrValidationFailed) holds for every ValidationError.
type ValidationError struct {
	rule    string
	message string
}

// NewValidationError creates a validation error for the given rule code.
func NewValidationError(rule, message string) *ValidationError {
	return &ValidationError{
		rule:    rule,
		message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.message
}

// Is lets callers match any ValidationError against ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Rule returns the code of the violated rule.
func (e *ValidationError) Rule() string {
	return e.rule
}

// Kind returns the error classification
func (e *ValidationError) Kind() Kind {
	return KindValidation
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return ErrValidationFailed.ErrorCode()
}

// Message returns the user-friendly error message
func (e *ValidationError) Message() string {
	return e.message
}

// Details returns the violated rule code
func (e *ValidationError) Details() string {
	return e.rule
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap returns the underlying driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Kind returns the error classification
func (e *DatabaseExecuteError) Kind() Kind {
	return KindStore
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
