package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrPrecondition           = errors.New("workflow precondition not met")
	ErrAgentUnavailable       = errors.New("agent unavailable")
	ErrAgentRequest           = errors.New("agent request failed")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected behavior of AI")
	ErrDatabaseError          = errors.New("database error")
	ErrSessionNotFound        = errors.New("session not found")
)

// FieldError reports a missing or malformed request field.
type FieldError struct {
	Field string
}

func NewFieldError(field string) *FieldError {
	return &FieldError{Field: field}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }
