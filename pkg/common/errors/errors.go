package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the parflow library

var (
	// ErrClosed indicates that an operation was attempted on a closed pool
	ErrClosed = errors.New("pool is closed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPanicked indicates that a callable panicked on a pool goroutine
	ErrPanicked = errors.New("callable panicked")
)

// ValidationError describes a configuration field that failed validation.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same instance.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError wraps a failure of a named operation inside a module.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError for the given cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches extra context and returns the same instance.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// PanicError carries a value recovered on a pool goroutine back to the
// goroutine that is waiting on it. Participant is the fork-join participant
// index or the background worker id.
type PanicError struct {
	Participant int
	Value       interface{}
	Stack       []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("participant %d panicked: %v\nStack trace:\n%s", e.Participant, e.Value, e.Stack)
}

// Unwrap returns ErrPanicked, or the recovered value when it is itself an error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPanicked, err}
	}
	return []error{ErrPanicked}
}

// IsTimeout returns true if err is or wraps ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// AsPanic extracts a PanicError from err.
func AsPanic(err error) (*PanicError, bool) {
	var perr *PanicError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// IsPanic returns true if err is or wraps a PanicError.
func IsPanic(err error) bool {
	_, ok := AsPanic(err)
	return ok
}
