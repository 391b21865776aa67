package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrClosed", ErrClosed, "pool is closed"},
		{"ErrTimeout", ErrTimeout, "operation timed out"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
		{"ErrPanicked", ErrPanicked, "callable panicked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("error should not be nil")
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err: &ValidationError{
				Module: "forkjoin",
				Field:  "workers",
				Value:  -1,
				Reason: "cannot be negative",
			},
			want: "forkjoin: invalid workers=-1 (cannot be negative)",
		},
		{
			name: "with hint",
			err: &ValidationError{
				Module: "background",
				Field:  "task_wait_timeout",
				Value:  0,
				Reason: "must be positive",
				Hint:   "use a value greater than 0",
			},
			want: "background: invalid task_wait_timeout=0 (must be positive) - use a value greater than 0",
		},
		{
			name: "string value",
			err: &ValidationError{
				Module: "bookkeeping",
				Field:  "cron",
				Value:  "",
				Reason: "cannot be empty",
			},
			want: "bookkeeping: invalid cron= (cannot be empty)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	verr := NewValidationError("test", "field", 0, "test")

	if verr.Unwrap() != ErrInvalidConfiguration {
		t.Errorf("Unwrap() = %v, want ErrInvalidConfiguration", verr.Unwrap())
	}
	if !errors.Is(verr, ErrInvalidConfiguration) {
		t.Error("ValidationError should wrap ErrInvalidConfiguration")
	}
}

func TestValidationError_WithHint(t *testing.T) {
	err := NewValidationError("test", "field", 0, "invalid").
		WithHint("try using a positive value")

	if err.Hint != "try using a positive value" {
		t.Errorf("Hint = %q, want %q", err.Hint, "try using a positive value")
	}

	if result := err.WithHint("new hint"); result != err {
		t.Error("WithHint should return the same instance")
	}
}

func TestOperationError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewOperationError("bookkeeping", "Publish", cause).
		WithContext("redis unreachable")

	want := "bookkeeping.Publish failed: connection refused (redis unreachable)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("OperationError should wrap the cause error")
	}

	bare := NewOperationError("bookkeeping", "Publish", cause)
	if got := bare.Error(); got != "bookkeeping.Publish failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPanicError(t *testing.T) {
	t.Run("plain value", func(t *testing.T) {
		perr := &PanicError{Participant: 3, Value: "boom", Stack: []byte("goroutine 7")}

		if !errors.Is(perr, ErrPanicked) {
			t.Error("PanicError should wrap ErrPanicked")
		}
		msg := perr.Error()
		for _, part := range []string{"participant 3", "boom", "goroutine 7"} {
			if !strings.Contains(msg, part) {
				t.Errorf("error message should contain %q, got %q", part, msg)
			}
		}
	})

	t.Run("error value", func(t *testing.T) {
		cause := errors.New("index out of range")
		perr := &PanicError{Participant: 1, Value: cause}

		if !errors.Is(perr, cause) {
			t.Error("PanicError should expose an error value")
		}
		if !errors.Is(perr, ErrPanicked) {
			t.Error("PanicError should wrap ErrPanicked")
		}
	})

	t.Run("AsPanic through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("exec: %w", &PanicError{Participant: 2, Value: 42})

		perr, ok := AsPanic(wrapped)
		if !ok {
			t.Fatal("AsPanic should find the PanicError")
		}
		if perr.Participant != 2 || perr.Value != 42 {
			t.Errorf("got participant %d value %v", perr.Participant, perr.Value)
		}

		if _, ok := AsPanic(ErrTimeout); ok {
			t.Error("AsPanic should not match ErrTimeout")
		}
	})
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		timeout    bool
		validation bool
	}{
		{"timeout", ErrTimeout, true, false},
		{"wrapped timeout", fmt.Errorf("shutdown: %w", ErrTimeout), true, false},
		{"validation", NewValidationError("m", "f", 1, "r"), false, true},
		{"wrapped validation", &OperationError{Cause: NewValidationError("m", "f", 1, "r")}, false, true},
		{"closed", ErrClosed, false, false},
		{"nil", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeout(tt.err); got != tt.timeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.timeout)
			}
			if got := IsValidationError(tt.err); got != tt.validation {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.validation)
			}
		})
	}
}
