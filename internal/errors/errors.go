package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches two domain errors by code so wrapped copies still compare equal.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Signup / account errors
	ErrAccountExists = NewDomainError("ACCOUNT_EXISTS", "account already exists")
	ErrUserNotFound  = NewDomainError("USER_NOT_FOUND", "user not found")

	// Login errors
	ErrInvalidEmail    = NewDomainError("INVALID_EMAIL", "invalid email")
	ErrNotConfirmed    = NewDomainError("NOT_CONFIRMED", "email not confirmed")
	ErrInvalidPassword = NewDomainError("INVALID_PASSWORD", "invalid password")

	// Token errors
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "could not validate credentials")
	ErrInvalidToken = NewDomainError("INVALID_TOKEN", "invalid or expired token")
	ErrInvalidScope = NewDomainError("INVALID_SCOPE", "invalid scope for token")
	ErrVerification = NewDomainError("VERIFICATION_ERROR", "verification error")

	// Contact errors
	ErrContactNotFound = NewDomainError("CONTACT_NOT_FOUND", "contact not found")

	// Validation errors
	ErrValidation = NewDomainError("VALIDATION_ERROR", "invalid input")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VERIFICATION_ERROR":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_EMAIL", "NOT_CONFIRMED", "INVALID_PASSWORD",
		"INVALID_TOKEN", "INVALID_SCOPE":
		return http.StatusUnauthorized

	// 404 Not Found
	case "CONTACT_NOT_FOUND", "USER_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "ACCOUNT_EXISTS":
		return http.StatusConflict

	// 422 Unprocessable Entity
	case "VALIDATION_ERROR":
		return http.StatusUnprocessableEntity

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
