package model

import (
	"errors"
	"fmt"
)

// Configuration error classes. Every one of them is detected before the
// first event of a run is emitted.
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidQuantum  = errors.New("invalid quantum")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrMismatchedInput = errors.New("mismatched input")
)

// ConfigError describes a rejected configuration value. It unwraps to one of
// the Err* sentinels above so callers can match with errors.Is.
type ConfigError struct {
	Kind    error
	Field   string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg += fmt.Sprintf(" for %s", e.Field)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" %q", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return true
	}
	return errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidQuantum) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrMismatchedInput)
}

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation  ErrorCode = "VALIDATION_ERROR"
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrRateLimited ErrorCode = "RATE_LIMITED"
	ErrInternal    ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the scoop API.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// InvalidTransitionError is returned when a job state transition is invalid.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s state transition: %s → %s (entity %s)", e.Entity, e.From, e.To, e.ID)
}
