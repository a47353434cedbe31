package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed indicates that a field value violates its constraint
	ErrValidationFailed = errors.New("validation failed")

	// ErrTypeMismatch indicates that a relationship field was given the wrong kind of entity
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrImmutableField indicates an attempt to change a field that is fixed after construction
	ErrImmutableField = errors.New("immutable field")
)

// ValidationError represents a validation error with detailed field information.
// It matches ErrValidationFailed under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// TypeMismatchError is returned when a relationship field (an article's author
// or magazine) receives a value that is missing, of the wrong kind, or not
// registered in the registry performing the operation.
type TypeMismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on field '%s': want %s, got %s", e.Field, e.Want, e.Got)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ImmutableFieldError is returned by setters of fields that cannot change
// after construction.
type ImmutableFieldError struct {
	Entity string
	Field  string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("%s %s is immutable and cannot be changed", e.Entity, e.Field)
}

// Is reports whether target is ErrImmutableField.
func (e *ImmutableFieldError) Is(target error) bool {
	return target == ErrImmutableField
}
