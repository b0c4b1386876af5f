// Package service provides business logic for the application.
package service

import (
	"errors"
	"strings"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// Service errors.
var (
	ErrUserNotFound       = kindError(ErrNotFound, "user not found")
	ErrDiaryEntryNotFound = kindError(ErrNotFound, "diary entry not found")
	ErrItineraryNotFound  = kindError(ErrNotFound, "itinerary not found")
	ErrLocationNotFound   = kindError(ErrNotFound, "location not found")
	ErrEmailExists        = kindError(ErrConflict, "email already registered")
	ErrInvalidCredentials = kindError(ErrUnauthorized, "invalid credentials")
	ErrNotOwner           = kindError(ErrUnauthorized, "not the owner of this resource")
)

// Error is a service error with a client-safe message and a kind.
type Error struct {
	kind    error
	message string
}

func kindError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned when input fails schema validation.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Rule)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
