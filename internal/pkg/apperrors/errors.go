package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError carries every field violation found in a request. Field
// checks are aggregated, not short-circuited, so the caller sees all
// problems at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Fields: []FieldError{{Field: field, Message: message}}})
}

// WrapValidationError attaches the ErrValidation sentinel so boundary code
// matches with errors.Is while errors.As still recovers the field list.
func WrapValidationError(ve *ValidationError) error {
	return fmt.Errorf("%w: %w", ErrValidation, ve)
}

// DuplicateError reports a uniqueness violation on customerCode or email,
// detected either by a pre-check read or by the unique index at commit time.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("duplicate value for %s: %s", e.Field, e.Value)
	}
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

func NewDuplicateError(field, value string) error {
	return fmt.Errorf("%w: %w", ErrAlreadyExists, &DuplicateError{Field: field, Value: value})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
