// Package apperror defines the error taxonomy shared by services and handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindStorage    Kind = "storage"
)

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error with its kind and optional cause
type AppError struct {
	Kind    Kind
	Message string
	Err     error
	Fields  []FieldError
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error for the given resource and id
func NotFound(resource, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// Validation creates a validation error carrying every invalid field
func Validation(fields ...FieldError) *AppError {
	msg := "invalid input"
	if len(fields) == 1 {
		msg = fields[0].Field + ": " + fields[0].Message
	} else if len(fields) > 1 {
		msg = fmt.Sprintf("invalid input (%d fields)", len(fields))
	}
	return &AppError{Kind: KindValidation, Message: msg, Fields: fields}
}

// Storage wraps a persistence failure
func Storage(op string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: "failed to " + op, Err: err}
}

// KindOf returns the kind of err, or KindStorage for unclassified errors
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// FieldsOf returns the field errors carried by err, if any
func FieldsOf(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// HTTPStatus maps an error to the status code returned to clients
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
