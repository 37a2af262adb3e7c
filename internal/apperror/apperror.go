// Package apperror defines the errors the HTTP and CLI layers know how to
// present. Lower layers wrap one of the sentinels so callers can branch with
// errors.Is without parsing messages.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrUnsupported = errors.New("unsupported")
)

type AppError struct {
	Err     error  // sentinel
	Message string // human-readable message
	Field   string // optional: request field at fault
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unsupported reports a well-formed request the service cannot serve, such as
// static analysis for a language without analysis tools.
func Unsupported(field, message string) *AppError {
	return &AppError{
		Err:     ErrUnsupported,
		Message: message,
		Field:   field,
	}
}
