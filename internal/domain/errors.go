package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Quiz attempt errors
	CodeQuizNotFound          ErrorCode = "QUIZ_NOT_FOUND"
	CodeRetryNotAllowed       ErrorCode = "RETRY_NOT_ALLOWED"
	CodeInvalidQuizDefinition ErrorCode = "INVALID_QUIZ_DEFINITION"
	CodeConcurrencyConflict   ErrorCode = "CONCURRENCY_CONFLICT"
	CodeCertificateNotFound   ErrorCode = "CERTIFICATE_NOT_FOUND"
)

// Store-level sentinels. Repositories return these (possibly wrapped) so the
// service layer can resolve races without knowing the database dialect.
var (
	ErrDuplicateCertificate = errors.New("certificate already exists for user and course")
	ErrConcurrencyConflict  = errors.New("attempt record was modified concurrently")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a detail field that the HTTP layer renders in the error body.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewQuizNotFoundError(courseID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("quiz not found for course: %s", courseID), nil)
}

func NewCertificateNotFoundError(courseID string) *DomainError {
	return NewError(CodeCertificateNotFound, fmt.Sprintf("no certificate issued for course: %s", courseID), nil)
}

// NewInvalidQuizDefinitionError reports a data-setup bug in a quiz definition.
func NewInvalidQuizDefinitionError(courseID, reason string) *DomainError {
	return NewError(CodeInvalidQuizDefinition, fmt.Sprintf("invalid quiz definition for course %s: %s", courseID, reason), nil).
		WithContext("course_id", courseID)
}

func NewConcurrencyConflictError(courseID string, cause error) *DomainError {
	return NewError(CodeConcurrencyConflict, fmt.Sprintf("concurrent submission detected for course %s", courseID), cause)
}

// RetryNotAllowedError is returned by SubmitAttempt when the eligibility check
// fails. It carries enough state for the caller to render a countdown.
type RetryNotAllowedError struct {
	Reason            RetryReason
	NextRetryAt       *time.Time
	AttemptsRemaining *int
}

func (e *RetryNotAllowedError) Error() string {
	if e.NextRetryAt != nil {
		return fmt.Sprintf("retry not allowed: %s until %s", e.Reason, e.NextRetryAt.Format(time.RFC3339))
	}
	return fmt.Sprintf("retry not allowed: %s", e.Reason)
}

// NewRetryNotAllowedError builds the error from a negative eligibility result.
func NewRetryNotAllowedError(result *EligibilityResult) *RetryNotAllowedError {
	e := &RetryNotAllowedError{Reason: result.Reason, NextRetryAt: result.NextRetryAt}
	if result.Reason != ReasonMaxAttemptsExceeded {
		remaining := result.AttemptsRemaining
		e.AttemptsRemaining = &remaining
	}
	return e
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Code    ErrorCode   `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a list of field failures returned from request validation
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	if len(v) == 1 {
		return "validation failed: " + v[0].Error()
	}
	return fmt.Sprintf("validation failed: %s (and %d more)", v[0].Error(), len(v)-1)
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Code: CodeMissingField, Field: field, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Code: CodeInvalidFormat, Field: field, Message: "field has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Code:    CodeOutOfRange,
		Field:   field,
		Message: fmt.Sprintf("value must be between %d and %d", min, max),
		Value:   value,
	}
}
