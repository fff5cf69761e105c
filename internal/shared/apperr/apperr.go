package apperr

import (
	"errors"
	"fmt"
)

// AppError carries a machine-readable code alongside the human message so
// the transport layer can map failures without string matching.
type AppError struct {
	Code    string // Error code for the client
	Message string // Human-readable message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeForbidden  = "FORBIDDEN"
	CodePlanLimit  = "PLAN_LIMIT"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
)

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// PlanLimit creates a plan limit error. Distinguishable from validation
// failures so the caller can render an upgrade prompt instead of a
// generic form error.
func PlanLimit(message string) *AppError {
	return &AppError{Code: CodePlanLimit, Message: message}
}

// Internal creates an internal error. Surfaced to callers as a generic
// retryable failure.
func Internal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// Get extracts an AppError from an error chain, or nil.
func Get(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
