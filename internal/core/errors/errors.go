package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent data or business rule violations
var (
	// Authentication
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("action forbidden")

	// Data source
	ErrFileNotFound           = errors.New("file not found in source folder")
	ErrSourceUnavailable      = errors.New("data source unavailable")
	ErrMissingRequiredColumns = errors.New("required columns are missing")
	ErrMalformedData          = errors.New("data could not be parsed")

	// Tickets
	ErrTicketNotFound = errors.New("ticket not found")

	// Filters
	ErrInvalidFilter    = errors.New("invalid filter state")
	ErrInvalidDateRange = errors.New("date range start is after end")
	ErrInvalidSolved    = errors.New("invalid solved filter value")
	ErrInvalidListMode  = errors.New("invalid ticket list mode")
	ErrInvalidPlatform  = errors.New("invalid execution platform")

	// Saved views
	ErrSavedViewNotFound = errors.New("saved view not found")
	ErrViewNameRequired  = errors.New("view name is required")
	ErrViewNameTooLong   = errors.New("view name exceeds maximum length")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}

// ColumnError reports which required columns a data file lacks.
type ColumnError struct {
	File    string
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: missing required columns %v", e.File, e.Missing)
}

func (e *ColumnError) Unwrap() error {
	return ErrMissingRequiredColumns
}
