// FilePath: internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeDuplicate   ErrorType = "duplicate"
	ErrorTypeProtected   ErrorType = "protected"
	ErrorTypeDatabase    ErrorType = "database"
	ErrorTypeAuth        ErrorType = "authentication"
	ErrorTypeAuthorize   ErrorType = "authorization"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypeUnavailable ErrorType = "service_unavailable"
)

// APIError represents a structured API error
type APIError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Code      int       `json:"-"`
	RequestID string    `json:"request_id,omitempty"`
	Details   any       `json:"details,omitempty"`
	err       error     // Internal error for logging
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the internal error to errors.Is / errors.As.
func (e *APIError) Unwrap() error {
	return e.err
}

// WithRequestID adds a request ID to the error
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// WithDetails adds additional details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// Response is the JSON envelope of an error reply.
type Response struct {
	OK bool `json:"ok"`
	*APIError
}

// Response wraps the error for the wire.
func (e *APIError) Response() Response {
	return Response{OK: false, APIError: e}
}

func newError(t ErrorType, code int, msg string, err error) *APIError {
	return &APIError{
		Type:    t,
		Message: msg,
		Code:    code,
		err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, err error) *APIError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, msg, err)
}

// NewDuplicateError reports a unique constraint violation, e.g. a taken username.
func NewDuplicateError(msg string, err error) *APIError {
	return newError(ErrorTypeDuplicate, http.StatusConflict, msg, err)
}

// NewProtectedError reports an attempt to remove a record that may not be removed.
func NewProtectedError(msg string, err error) *APIError {
	return newError(ErrorTypeProtected, http.StatusForbidden, msg, err)
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *APIError {
	return newError(ErrorTypeDatabase, http.StatusInternalServerError, msg, err)
}

// NewAuthError creates a new authentication error
func NewAuthError(msg string, err error) *APIError {
	return newError(ErrorTypeAuth, http.StatusUnauthorized, msg, err)
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(msg string, err error) *APIError {
	return newError(ErrorTypeAuthorize, http.StatusForbidden, msg, err)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *APIError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, msg, err)
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *APIError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, msg, err)
}

// NewUnavailableError creates a new service unavailable error
func NewUnavailableError(msg string, err error) *APIError {
	return newError(ErrorTypeUnavailable, http.StatusServiceUnavailable, msg, err)
}

// As returns the first *APIError in err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func isType(err error, t ErrorType) bool {
	if apiErr, ok := As(err); ok {
		return apiErr.Type == t
	}
	return false
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsDuplicate checks if an error is a Duplicate error
func IsDuplicate(err error) bool {
	return isType(err, ErrorTypeDuplicate)
}

// IsProtected checks if an error is a Protected error
func IsProtected(err error) bool {
	return isType(err, ErrorTypeProtected)
}

// ToAPIError converts any error into an *APIError, treating unknown errors as internal.
func ToAPIError(err error, fallback string) *APIError {
	if apiErr, ok := As(err); ok {
		return apiErr
	}
	return NewInternalError(fallback, err)
}
