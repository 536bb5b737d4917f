package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrConflict     ErrorCode = "CONFLICT"

	// Quiz specific errors
	ErrQuizNotAvailable ErrorCode = "QUIZ_NOT_AVAILABLE"

	// Scheduled task errors
	ErrTask ErrorCode = "TASK_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(resource, id string) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("%s %s not found", resource, id), nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(ErrValidation, message, nil)
}

func NewInternalError(err error) *DomainError {
	return NewError(ErrInternal, "An internal error occurred", err)
}

func NewConflictError(message string) *DomainError {
	return NewError(ErrConflict, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

// NewQuizNotAvailableError signals a submission against a quiz outside its
// active window. The quiz's current status is included for the caller.
func NewQuizNotAvailableError(quizID string, status string) *DomainError {
	return NewError(ErrQuizNotAvailable,
		fmt.Sprintf("Quiz %s is not currently available (status: %s)", quizID, status), nil)
}

// NewTaskError wraps a failure inside a scheduled job. Jobs convert internal
// errors to this form instead of letting them escape the runner.
func NewTaskError(jobName string, err error) *DomainError {
	return NewError(ErrTask, fmt.Sprintf("Task %s failed", jobName), err)
}
