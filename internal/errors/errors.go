// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an invalid user input (bad number, negative weight)
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a parsing error (dimensions, config document)
	TypeParsing Type = "PARSING_ERROR"

	// TypeTariffNotFound indicates no tariff rule matched even after
	// the category fallback
	TypeTariffNotFound Type = "TARIFF_NOT_FOUND"

	// TypeConfig indicates the tariff configuration is unavailable;
	// the engine runs degraded and rejects pricing requests
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a missing entity (session, warehouse)
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// TariffNotFound creates a tariff lookup error naming the offending
// warehouse and category
func TariffNotFound(warehouse, category string) *Error {
	return Newf(TypeTariffNotFound, "no tariff rules for warehouse %q category %q", warehouse, category).
		WithContext("warehouse", warehouse).
		WithContext("category", category)
}

// ConfigUnavailable creates a degraded-mode pricing error
func ConfigUnavailable() *Error {
	return New(TypeConfig, "pricing unavailable: tariff configuration not loaded")
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
