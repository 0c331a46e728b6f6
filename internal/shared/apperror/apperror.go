// Package apperror defines the error taxonomy shared by the usecase and transport layers.
// Usecases return *AppError values; handlers only translate them into HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// InternalError represents an unexpected failure (storage or otherwise).
	InternalError ErrorType = iota
	// ValidationError represents malformed or incomplete client input.
	ValidationError
	// AuthenticationError represents missing or invalid credentials, or a missing session.
	AuthenticationError
	// ConflictError represents a uniqueness or integrity violation detected at persistence time.
	ConflictError
)

// String returns the name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ValidationError:
		return "validation"
	case AuthenticationError:
		return "authentication"
	case ConflictError:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError carries a user-facing message and the underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error returns the message followed by the cause, if any.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case AuthenticationError:
		return http.StatusUnauthorized
	case ConflictError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError of the given type.
func New(errType ErrorType, message string, cause error) *AppError {
	return &AppError{Type: errType, Message: message, Err: cause}
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, cause error) *AppError {
	return New(ValidationError, message, cause)
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(message string, cause error) *AppError {
	return New(AuthenticationError, message, cause)
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string, cause error) *AppError {
	return New(ConflictError, message, cause)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, cause error) *AppError {
	return New(InternalError, message, cause)
}

// As extracts an *AppError from the error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	return isType(err, ValidationError)
}

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool {
	return isType(err, AuthenticationError)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	return isType(err, ConflictError)
}

// IsInternal reports whether err is an InternalError.
func IsInternal(err error) bool {
	return isType(err, InternalError)
}

func isType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}
