package errors

import (
	"net/http"

	"kompas/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
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

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
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

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. User-facing messages are in Danish.
var (
	// Resolution-related errors
	ErrCandidateInvalid = NewBaseError(
		http.StatusBadRequest,
		"CANDIDATE_INVALID",
		"Resultatet mangler koordinater",
		"",
	)

	ErrAddressNotFound = NewBaseError(
		http.StatusNotFound,
		"ADDRESS_NOT_FOUND",
		"Adressen kunne ikke findes",
		"",
	)

	// Route-related errors
	ErrEndpointMissing = NewBaseError(
		http.StatusBadRequest,
		"ENDPOINT_MISSING",
		"Ruten kræver både et start- og et slutpunkt",
		"",
	)

	ErrEndpointNotFound = NewBaseError(
		http.StatusNotFound,
		"ENDPOINT_NOT_FOUND",
		"Der blev ikke fundet koordinater for punktet",
		"",
	)

	ErrNoActivePlan = NewBaseError(
		http.StatusNotFound,
		"NO_ACTIVE_PLAN",
		"Der er ingen aktiv rute at genberegne",
		"",
	)

	// Foreign geocoder errors
	ErrForeignDisabled = NewBaseError(
		http.StatusServiceUnavailable,
		"FOREIGN_SEARCH_DISABLED",
		"Udlandssøgning er ikke konfigureret",
		"",
	)

	ErrQuotaUnknown = NewBaseError(
		http.StatusNotFound,
		"QUOTA_UNKNOWN",
		"Der er endnu ikke registreret nogen kvote",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Forespørgslen kunne ikke valideres",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Der opstod en intern fejl",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Ressourcen findes ikke",
		"",
	)
)

// UpstreamError represents a failed call to an external geodata service,
// implementing the AppError interface
type UpstreamError struct {
	err     error
	service string
}

// NewUpstreamError creates an upstream-related error
func NewUpstreamError(err error, service string) AppError {
	return &UpstreamError{
		err:     err,
		service: service,
	}
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return errors.Wrap(e.err, "upstream call failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *UpstreamError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *UpstreamError) ErrorCode() string {
	return "UPSTREAM_FAILED"
}

// Message returns the user-friendly error message
func (e *UpstreamError) Message() string {
	return "Den eksterne datakilde svarede ikke"
}

// Details returns detailed error information
func (e *UpstreamError) Details() string {
	return e.service
}
