// Package apperror provides structured error handling for the admin workflow.
// Every failure that reaches a handler or a container is converted to AppError so the
// caller can render it inline next to the control that triggered it.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal  = "INTERNAL_ERROR"
	CodeTimeout   = "TIMEOUT_ERROR"
	CodeTransport = "TRANSPORT_ERROR"

	// Backend-reported business error (success: false)
	CodeBackend = "BACKEND_ERROR"

	// Validation errors (400, 422)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeFieldValidation = "FIELD_VALIDATION"

	// Workflow rule violations (422)
	CodeBusinessRule         = "BUSINESS_RULE_VIOLATION"
	CodeProductAlreadyAdded  = "PRODUCT_ALREADY_ADDED"
	CodeDepositProtected     = "DEPOSIT_LINE_PROTECTED"
	CodePaymentAlreadyExists = "PAYMENT_ALREADY_RECORDED"
	CodePartialFailure       = "PARTIAL_FAILURE"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict             = "CONFLICT"
	CodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
)

// AppError is the standard error type for the platform.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, ids, amounts)
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

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a client-side validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFieldValidation creates a field-level validation error (422).
// Fields are kept in Details["fields"] so forms can map them onto their inputs.
func NewFieldValidation(message string, fields map[string][]string) *AppError {
	if message == "" {
		message = "validation failed"
	}
	return &AppError{
		Code:       CodeFieldValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"fields": fields},
	}
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

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewTransport wraps a network failure talking to the backend (502).
func NewTransport(err error) *AppError {
	return &AppError{
		Code:       CodeTransport,
		Message:    "backend is unreachable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewTimeout wraps a backend call that ran out of time (504).
func NewTimeout(err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "backend did not respond in time",
		HTTPStatus: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// NewBackend creates an error for a backend response with success=false.
// The backend status is kept when it is a client error, otherwise 502 is suggested.
func NewBackend(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}
	httpStatus := http.StatusBadGateway
	if status >= 400 && status < 500 {
		httpStatus = status
	}
	return &AppError{
		Code:       CodeBackend,
		Message:    message,
		HTTPStatus: httpStatus,
		Details:    map[string]any{"backend_status": status},
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

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(code, message string) *AppError {
	if code == "" {
		code = CodeConflict
	}
	return &AppError{
		Code:       code,
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

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// FieldErrors returns field-level messages carried by err, or nil.
func FieldErrors(err error) map[string][]string {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Details == nil {
		return nil
	}
	fields, _ := appErr.Details["fields"].(map[string][]string)
	return fields
}

// Message returns the message to show the user for err.
// Non-AppError values are reported generically.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Message
	}
	return "unexpected error"
}
