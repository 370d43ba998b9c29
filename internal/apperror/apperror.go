// Package apperror defines the domain error types shared by all layers.
//
// Services return these errors; the GraphQL layer is the single place
// where they are translated into the API error shape.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
)

// AppError carries a field name alongside the message so the API can
// report errors as a field → message mapping.
type AppError struct {
	Err     error  // sentinel category
	Message string // human-readable error message
	Field   string // field or resource causing the error
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Extensions implements the resolver-error contract of
// graph-gophers/graphql-go, so clients receive
// {"errors": {field: message}} in the GraphQL error extensions.
func (e *AppError) Extensions() map[string]interface{} {
	field := e.Field
	if field == "" {
		field = "message"
	}
	return map[string]interface{}{
		"errors": map[string]interface{}{field: e.Message},
	}
}

// ValidationFailed reports invalid input on a named field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// NotFound reports a missing resource. Lookup failures share the
// validation shape on the wire, so the resource name doubles as the field.
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: "could not be found",
		Field:   resource,
	}
}

// Conflict reports a uniqueness violation on a named field.
func Conflict(field string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: "is already taken",
		Field:   field,
	}
}

// Unauthenticated reports a guarded operation called without a viewer.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "you must be logged in",
	}
}
