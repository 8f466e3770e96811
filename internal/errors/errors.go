// Package errors provides structured error handling for scanvault operations.
// It defines error codes, typed errors for request and store failures, and the
// table that maps each code to an HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// Request errors.
	CodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// Store errors.
	CodeStore           ErrorCode = "STORE"
	CodeStoreConnection ErrorCode = "STORE_CONNECTION"
	CodeStoreMigration  ErrorCode = "STORE_MIGRATION"
)

// statusByCode maps error codes to the HTTP status returned to API clients.
var statusByCode = map[ErrorCode]int{
	CodeMissingParameter: http.StatusBadRequest,
	CodeInvalidParameter: http.StatusBadRequest,
	CodeValidation:       http.StatusBadRequest,
	CodeStore:            http.StatusInternalServerError,
	CodeStoreConnection:  http.StatusInternalServerError,
	CodeStoreMigration:   http.StatusInternalServerError,
	CodeConfiguration:    http.StatusInternalServerError,
	CodeUnknown:          http.StatusInternalServerError,
}

// RequestError represents a problem with the parameters or body of a request.
type RequestError struct {
	Code      ErrorCode
	Message   string
	Parameter string
	Cause     error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("[%s] %s (parameter: %s)", e.Code, e.Message, e.Parameter)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code of the error.
func (e *RequestError) ErrorCode() ErrorCode {
	return e.Code
}

// PublicMessage returns the text shown to API clients.
func (e *RequestError) PublicMessage() string {
	return e.Message
}

// StoreError represents a failed document store operation.
// The message of the underlying driver error is kept verbatim.
type StoreError struct {
	Code      ErrorCode
	Message   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("[%s] %s (operation: %s)", e.Code, e.Message, e.Operation)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code of the error.
func (e *StoreError) ErrorCode() ErrorCode {
	return e.Code
}

// PublicMessage returns the text shown to API clients.
func (e *StoreError) PublicMessage() string {
	return e.Message
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code of the error.
func (e *ConfigError) ErrorCode() ErrorCode {
	return e.Code
}

// coded is implemented by every error type in this package.
type coded interface {
	error
	ErrorCode() ErrorCode
}

// public is implemented by errors that carry a client-facing message.
type public interface {
	PublicMessage() string
}

// GetCode extracts the error code from an error chain if it has one.
func GetCode(err error) ErrorCode {
	var c coded
	if stderrors.As(err, &c) {
		return c.ErrorCode()
	}
	return CodeUnknown
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that may be shown to API clients.
// Errors from outside this package are reported with their own text.
func PublicMessage(err error) string {
	var p public
	if stderrors.As(err, &p) {
		return p.PublicMessage()
	}
	return err.Error()
}

// ErrMissingParameter creates an error for an absent required query parameter.
func ErrMissingParameter(name string) *RequestError {
	return &RequestError{
		Code:      CodeMissingParameter,
		Message:   fmt.Sprintf("%s query parameter is missing", name),
		Parameter: name,
	}
}

// ErrInvalidParameter creates an error for a parameter that could not be parsed.
func ErrInvalidParameter(name, value string, err error) *RequestError {
	return &RequestError{
		Code:      CodeInvalidParameter,
		Message:   fmt.Sprintf("invalid %s query parameter: %q", name, value),
		Parameter: name,
		Cause:     err,
	}
}

// ErrInvalidBody creates an error for a request body that cannot be used.
func ErrInvalidBody(message string, err error) *RequestError {
	return &RequestError{
		Code:    CodeInvalidParameter,
		Message: message,
		Cause:   err,
	}
}

// ErrStore wraps a driver error from a store operation.
func ErrStore(operation string, err error) *StoreError {
	return &StoreError{
		Code:      CodeStore,
		Message:   err.Error(),
		Operation: operation,
		Cause:     err,
	}
}

// ErrStoreConnection creates an error for store connection failures.
func ErrStoreConnection(err error) *StoreError {
	return &StoreError{
		Code:      CodeStoreConnection,
		Message:   "failed to connect to document store: " + err.Error(),
		Operation: "connect",
		Cause:     err,
	}
}

// ErrStoreMigration creates an error for failed schema migrations.
func ErrStoreMigration(name string, err error) *StoreError {
	return &StoreError{
		Code:      CodeStoreMigration,
		Message:   fmt.Sprintf("migration %s failed: %v", name, err),
		Operation: "migrate",
		Cause:     err,
	}
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    CodeValidation,
		Message: "Invalid configuration value",
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
