package domain

import (
	"errors"
	"strings"
)

// Sentinel errors used across all layers. Transports map them to client
// responses: ErrValidation to 400 / VALIDATION, ErrForbidden to FORBIDDEN,
// and ErrUpstream to a generic 500.
var (
	ErrValidation    = errors.New("validation error")
	ErrForbidden     = errors.New("forbidden")
	ErrDataIntegrity = errors.New("data integrity")
	ErrUpstream      = errors.New("upstream service error")
)

// FieldError describes a validation error for a specific field. It is
// rendered in the GraphQL "fields" extension.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// Error lists every field, e.g. "validation: input: required; voice: required".
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
