package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures so transport layers can map them to status
// codes without inspecting error strings.
type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeStorage    ErrorCode = "STORAGE_ERROR"
)

// Error is the typed error the core raises across package boundaries.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewValidation builds a validation error from a format string.
func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound builds a not-found error.
func NewNotFound(message string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: message}
}

// WrapStorage wraps an underlying persistence failure.
func WrapStorage(message string, err error) *Error {
	return &Error{Code: ErrCodeStorage, Message: message, Err: err}
}

// ErrSongNotFound indicates the referenced song does not exist.
var ErrSongNotFound = NewNotFound("song not found")

// IsCode reports whether err carries the given classification.
func IsCode(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
