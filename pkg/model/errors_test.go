package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "Run 'run_123' not found"}
	want := "NOT_FOUND: Run 'run_123' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Run", "run_abc")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "Run 'run_abc' not found" {
		t.Errorf("Message = %q, want %q", err.Message, "Run 'run_abc' not found")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Invalid request",
		FieldError{Field: "jobs[0].duration", Value: "-1", Message: "must be non-negative"},
		FieldError{Field: "quantum", Message: "must be positive"},
	)
	if err.Code != ErrValidation {
		t.Errorf("Code = %q, want %q", err.Code, ErrValidation)
	}
	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{
		Entity: "Job",
		ID:     "3",
		From:   "COMPLETED",
		To:     "WAITING",
	}
	want := "invalid Job state transition: COMPLETED → WAITING (entity 3)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		kind error
		want string
	}{
		{
			name: "duration with field and value",
			err:  &ConfigError{Kind: ErrInvalidDuration, Field: "times[1]", Value: "abc", Message: "not an integer"},
			kind: ErrInvalidDuration,
			want: `invalid duration for times[1] "abc": not an integer`,
		},
		{
			name: "quantum",
			err:  &ConfigError{Kind: ErrInvalidQuantum, Field: "quantum", Value: "0", Message: "must be positive"},
			kind: ErrInvalidQuantum,
			want: `invalid quantum for quantum "0": must be positive`,
		},
		{
			name: "bare mode",
			err:  &ConfigError{Kind: ErrInvalidMode},
			kind: ErrInvalidMode,
			want: "invalid mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			wrapped := fmt.Errorf("load: %w", tt.err)
			if !errors.Is(wrapped, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.kind)
			}
			if !IsConfigError(wrapped) {
				t.Errorf("IsConfigError(%v) = false", wrapped)
			}
		})
	}
}

func TestIsConfigError_Other(t *testing.T) {
	if IsConfigError(errors.New("disk full")) {
		t.Error("IsConfigError(disk full) = true, want false")
	}
	if !IsConfigError(fmt.Errorf("x: %w", ErrMismatchedInput)) {
		t.Error("IsConfigError(wrapped sentinel) = false, want true")
	}
}
