// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal                  = "INTERNAL_ERROR"
	CodeNumberAllocationExhausted = "NUMBER_ALLOCATION_EXHAUSTED"
	CodeRender                    = "RENDER_ERROR"

	// Validation errors (400)
	CodeValidation             = "VALIDATION_FAILED"
	CodeDuplicateName          = "DUPLICATE_NAME"
	CodeDuplicateAccountNumber = "DUPLICATE_ACCOUNT_NUMBER"

	// Authentication (401)
	CodeAuthRequired = "AUTH_REQUIRED"

	// Not found (404). Also returned for resources owned by another tenant.
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict = "CONFLICT"

	// Missing antecedent such as the company profile (428)
	CodePreconditionMissing = "PRECONDITION_MISSING"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, missing antecedents, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into the error details
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// FieldErrors returns the per-field messages of a validation error.
func (e *AppError) FieldErrors() map[string]string {
	if e.Details == nil {
		return nil
	}
	fields, _ := e.Details["fields"].(map[string]string)
	return fields
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFieldValidation creates a validation error carrying per-field messages.
func NewFieldValidation(fields map[string]string) *AppError {
	return NewValidation("validation failed").WithDetail("fields", fields)
}

// NewFieldError is a shorthand for a single-field validation error.
func NewFieldError(field, message string) *AppError {
	return NewFieldValidation(map[string]string{field: message})
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewPreconditionMissing reports that an antecedent resource must exist first.
func NewPreconditionMissing(what string) *AppError {
	return &AppError{
		Code:       CodePreconditionMissing,
		Message:    fmt.Sprintf("%s is required", what),
		HTTPStatus: http.StatusPreconditionRequired,
		Details:    map[string]any{"missing": what},
	}
}

// NewDuplicateName is returned when a name must be unique within its scope.
func NewDuplicateName(entity, name string) *AppError {
	return &AppError{
		Code:       CodeDuplicateName,
		Message:    fmt.Sprintf("%s with this name already exists", entity),
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"entity": entity,
			"fields": map[string]string{"name": "name already in use"},
			"value":  name,
		},
	}
}

// NewDuplicateAccountNumber is returned for a repeated bank account number.
func NewDuplicateAccountNumber(number string) *AppError {
	return &AppError{
		Code:       CodeDuplicateAccountNumber,
		Message:    "bank account with this number already exists",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"fields": map[string]string{"accountNumber": "account number already in use"},
			"value":  number,
		},
	}
}

// NewNumberAllocationExhausted is returned when every numbering attempt collided.
func NewNumberAllocationExhausted(docType string, attempts int) *AppError {
	return &AppError{
		Code:       CodeNumberAllocationExhausted,
		Message:    "could not allocate a document number, please retry",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"docType": docType, "attempts": attempts},
	}
}

// NewRender wraps a failure of the HTML or PDF engine.
func NewRender(err error) *AppError {
	return &AppError{
		Code:       CodeRender,
		Message:    "failed to render document",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewAuthRequired creates an authentication error (401)
func NewAuthRequired(message string) *AppError {
	return &AppError{
		Code:       CodeAuthRequired,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return Is(err, CodeValidation)
}
