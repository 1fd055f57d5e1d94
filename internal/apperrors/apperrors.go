// Package apperrors defines the domain error types surfaced by the service
// layer. Anything not represented here propagates from the driver unwrapped.
package apperrors

import "fmt"

// ValidationError reports input that conflicts with a database constraint.
// Details maps field names to a human-readable reason for form display.
type ValidationError struct {
	Message string
	Details map[string]string
}

func NewValidationError(message string, details map[string]string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that a referenced entity or relationship does not
// exist for a requested mutation.
type NotFoundError struct {
	Message string
}

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string {
	return e.Message
}
